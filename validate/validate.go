// Package validate decides whether a Block may legally extend a chain. The
// Validator runs an ordered sequence of checks against the Block and a
// read-only Query over the chain, and the first check that fails determines
// the Reason for rejection.
//
// Validation never mutates the Block or the chain, so independent Blocks can
// be validated concurrently against the same Query. The Query must present a
// single consistent view of the chain for the duration of each validation.
package validate

import (
	"math/big"

	"github.com/renproject/phi"
	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/tx"
	"github.com/sirupsen/logrus"
)

// A Query gives read access to the chain that a Block is validated against.
type Query interface {
	// BlockByHash returns the accepted Block with the Hash.
	BlockByHash(digest.Hash) (*block.Block, bool)

	// AncestryEndingAt returns the Hashes of the Blocks from genesis to the
	// Block with the Hash, inclusive. It returns nil if the Block is unknown.
	AncestryEndingAt(digest.Hash) []digest.Hash

	// BlocksContainingTx returns the Hashes of every accepted Block, on any
	// branch, that includes the Transaction.
	BlocksContainingTx(digest.Hash) []digest.Hash

	// BlocksSpendingInput returns the Hashes of every accepted Block, on any
	// branch, that spends the input ref.
	BlocksSpendingInput(string) []digest.Hash

	// TransactionByHash returns any accepted Transaction, on any branch.
	TransactionByHash(digest.Hash) (*tx.Transaction, bool)
}

// A Validator checks Blocks against a chain.
type Validator struct {
	opts Options
}

// New returns a Validator.
func New(opts Options) *Validator {
	return &Validator{opts: opts}
}

// Validate the Block using a Validator with the default options.
func Validate(b *block.Block, q Query) (bool, Reason) {
	return New(DefaultOptions()).Validate(b, q)
}

// Validate the Block against the chain. It returns true and AllChecksPassed
// if the Block may be appended to the chain, otherwise it returns false and
// the Reason of the first check that failed.
func (validator *Validator) Validate(b *block.Block, q Query) (bool, Reason) {
	reason := validator.validate(b, q)
	logger := validator.opts.Logger.WithFields(logrus.Fields{
		"block":  b.Hash.Short(),
		"height": b.Height,
		"txs":    len(b.Transactions),
	})
	if reason != AllChecksPassed {
		logger.Debugf("rejected: %v", reason)
		return false, reason
	}
	logger.Debug("accepted")
	return true, AllChecksPassed
}

// A Result of validating one of many Blocks.
type Result struct {
	Hash     digest.Hash
	Accepted bool
	Reason   Reason
}

// ValidateAll validates independent Blocks in parallel. The Blocks are not
// validated against each other, only against the chain. Results are returned
// in the same order as the Blocks.
func (validator *Validator) ValidateAll(blocks block.Blocks, q Query) []Result {
	results := make([]Result, len(blocks))
	phi.ParForAll(blocks, func(i int) {
		accepted, reason := validator.Validate(blocks[i], q)
		results[i] = Result{Hash: blocks[i].Hash, Accepted: accepted, Reason: reason}
	})
	return results
}

func (validator *Validator) validate(b *block.Block, q Query) Reason {
	// Nothing about a nil Transaction can be hashed.
	for _, transaction := range b.Transactions {
		if transaction == nil {
			return MalformedTransaction
		}
	}
	if b.Merkle != block.MerkleRoot(b.Transactions) {
		return MerkleRootMismatch
	}
	if b.Hash != b.ComputeHash() {
		return HashMismatch
	}
	if len(b.Transactions) > validator.opts.MaxTransactions {
		return TooManyTransactions
	}

	if b.IsGenesis {
		if b.Height != 0 || b.ParentHash != block.GenesisParentHash {
			return InvalidGenesis
		}
		return AllChecksPassed
	}

	parent, ok := q.BlockByHash(b.ParentHash)
	if !ok {
		return NonexistentParent
	}
	if b.Height != parent.Height+1 {
		return InvalidHeight
	}
	if b.Timestamp < parent.Timestamp {
		return InvalidTimestamp
	}
	if !b.SealIsValid() {
		return InvalidSeal
	}
	for _, transaction := range b.Transactions {
		if !transaction.IsValid() {
			return MalformedTransaction
		}
	}

	ledger := newLedgerScope(b, q)
	checks := []func() Reason{
		ledger.checkInclusion,
		ledger.checkOutputsExist,
		ledger.checkInputsOnChain,
		ledger.checkUsers,
		ledger.checkDoubleSpend,
		ledger.checkMoneySupply,
	}
	for _, check := range checks {
		if reason := check(); reason != AllChecksPassed {
			return reason
		}
	}
	return AllChecksPassed
}

// A ledgerScope checks the Transactions of a non-genesis Block against the
// lineage ending at its parent. Transactions are assumed to be structurally
// valid.
type ledgerScope struct {
	block *block.Block
	query Query

	// ancestry is the set of Blocks from genesis to the parent.
	ancestry map[digest.Hash]struct{}
	// inBlock maps the Hash of every Transaction in the Block to its first
	// position.
	inBlock map[digest.Hash]int
}

func newLedgerScope(b *block.Block, q Query) *ledgerScope {
	lineage := q.AncestryEndingAt(b.ParentHash)
	ancestry := make(map[digest.Hash]struct{}, len(lineage))
	for _, hash := range lineage {
		ancestry[hash] = struct{}{}
	}
	inBlock := make(map[digest.Hash]int, len(b.Transactions))
	for i, transaction := range b.Transactions {
		if _, ok := inBlock[transaction.Hash]; !ok {
			inBlock[transaction.Hash] = i
		}
	}
	return &ledgerScope{
		block:    b,
		query:    q,
		ancestry: ancestry,
		inBlock:  inBlock,
	}
}

func (scope *ledgerScope) onAncestry(hashes []digest.Hash) bool {
	for _, hash := range hashes {
		if _, ok := scope.ancestry[hash]; ok {
			return true
		}
	}
	return false
}

// resolve the Transaction that an input ref points to, preferring the global
// index over the Block itself.
func (scope *ledgerScope) resolve(ref tx.InputRef) (*tx.Transaction, bool) {
	if transaction, ok := scope.query.TransactionByHash(ref.Hash); ok {
		return transaction, true
	}
	if i, ok := scope.inBlock[ref.Hash]; ok {
		return scope.block.Transactions[i], true
	}
	return nil, false
}

// forEachRef calls f for every input ref in the Block, in order, until f
// returns a Reason other than AllChecksPassed.
func (scope *ledgerScope) forEachRef(f func(transaction *tx.Transaction, raw string, ref tx.InputRef) Reason) Reason {
	for _, transaction := range scope.block.Transactions {
		for _, raw := range transaction.InputRefs {
			ref, err := tx.ParseInputRef(raw)
			if err != nil {
				return MalformedTransaction
			}
			if reason := f(transaction, raw, ref); reason != AllChecksPassed {
				return reason
			}
		}
	}
	return AllChecksPassed
}

func (scope *ledgerScope) checkInclusion() Reason {
	if len(scope.inBlock) != len(scope.block.Transactions) {
		return DoubleInclusion
	}
	for _, transaction := range scope.block.Transactions {
		if scope.onAncestry(scope.query.BlocksContainingTx(transaction.Hash)) {
			return DoubleInclusion
		}
	}
	return AllChecksPassed
}

func (scope *ledgerScope) checkOutputsExist() Reason {
	return scope.forEachRef(func(_ *tx.Transaction, _ string, ref tx.InputRef) Reason {
		input, ok := scope.resolve(ref)
		if !ok || ref.Index >= len(input.Outputs) {
			return OutputNotFound
		}
		return AllChecksPassed
	})
}

func (scope *ledgerScope) checkInputsOnChain() Reason {
	return scope.forEachRef(func(_ *tx.Transaction, _ string, ref tx.InputRef) Reason {
		if _, ok := scope.inBlock[ref.Hash]; ok {
			return AllChecksPassed
		}
		if scope.onAncestry(scope.query.BlocksContainingTx(ref.Hash)) {
			return AllChecksPassed
		}
		return InputTxNotFound
	})
}

func (scope *ledgerScope) checkUsers() Reason {
	return scope.forEachRef(func(transaction *tx.Transaction, _ string, ref tx.InputRef) Reason {
		input, _ := scope.resolve(ref)
		receiver := input.Outputs[ref.Index].Receiver
		for _, output := range transaction.Outputs {
			if output.Sender != receiver {
				return UserInconsistency
			}
		}
		return AllChecksPassed
	})
}

func (scope *ledgerScope) checkDoubleSpend() Reason {
	spent := map[string]struct{}{}
	return scope.forEachRef(func(_ *tx.Transaction, raw string, _ tx.InputRef) Reason {
		if _, ok := spent[raw]; ok {
			return DoubleSpend
		}
		spent[raw] = struct{}{}
		if scope.onAncestry(scope.query.BlocksSpendingInput(raw)) {
			return DoubleSpend
		}
		return AllChecksPassed
	})
}

// checkMoneySupply requires that, for every Transaction, the sum over all of
// its inputs is at least the sum of its outputs. Sums are computed without
// overflow.
func (scope *ledgerScope) checkMoneySupply() Reason {
	for _, transaction := range scope.block.Transactions {
		inputs := new(big.Int)
		for _, raw := range transaction.InputRefs {
			ref, err := tx.ParseInputRef(raw)
			if err != nil {
				return MalformedTransaction
			}
			input, _ := scope.resolve(ref)
			inputs.Add(inputs, new(big.Int).SetUint64(input.Outputs[ref.Index].Amount))
		}
		outputs := new(big.Int)
		for _, output := range transaction.Outputs {
			outputs.Add(outputs, new(big.Int).SetUint64(output.Amount))
		}
		if inputs.Cmp(outputs) < 0 {
			return CreatingMoney
		}
	}
	return AllChecksPassed
}
