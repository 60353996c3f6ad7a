package validate

// A Reason explains why a Block was accepted or rejected. Every rejection has
// exactly one Reason, and it is the Reason of the first check that failed.
type Reason string

// String implements the `fmt.Stringer` interface for the Reason type.
func (reason Reason) String() string {
	return string(reason)
}

// Define the closed set of Reasons.
const (
	MerkleRootMismatch   = Reason("Merkle root failed to match")
	HashMismatch         = Reason("Hash failed to match")
	TooManyTransactions  = Reason("Too many transactions")
	InvalidGenesis       = Reason("Invalid genesis")
	NonexistentParent    = Reason("Nonexistent parent")
	InvalidHeight        = Reason("Invalid height")
	InvalidTimestamp     = Reason("Invalid timestamp")
	InvalidSeal          = Reason("Invalid seal")
	MalformedTransaction = Reason("Malformed transaction included")
	DoubleInclusion      = Reason("Double transaction inclusion")
	OutputNotFound       = Reason("Required output not found")
	InputTxNotFound      = Reason("Input transaction not found")
	UserInconsistency    = Reason("User inconsistencies")
	DoubleSpend          = Reason("Double-spent input")
	CreatingMoney        = Reason("Creating money")
	AllChecksPassed      = Reason("All checks passed")
)
