// Package tx defines unsigned, UTXO-style Transactions. A Transaction spends
// outputs of earlier Transactions, referenced by input refs of the form
// "<hash>:<index>", and creates new outputs that move an amount from a sender
// to a receiver.
package tx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/renproject/toychain/digest"
)

// Separators used by the canonical encoding of a Transaction.
const (
	refSep    = ','
	outputSep = ';'
	fieldSep  = ','
	txSep     = '|'
)

// ErrMalformedInputRef is returned when an input ref cannot be parsed.
var ErrMalformedInputRef = errors.New("malformed input ref")

// An InputRef points to the output at Index of the Transaction with Hash.
type InputRef struct {
	Hash  digest.Hash
	Index int
}

// NewInputRef returns the string form of a reference to an output.
func NewInputRef(hash digest.Hash, index int) string {
	return InputRef{Hash: hash, Index: index}.String()
}

// String implements the `fmt.Stringer` interface for the InputRef type.
func (ref InputRef) String() string {
	return fmt.Sprintf("%v:%d", ref.Hash, ref.Index)
}

// ParseInputRef parses an input ref of the form "<hash>:<index>". The index
// must be a non-negative base 10 integer in canonical form, so that every
// output has exactly one ref.
func ParseInputRef(ref string) (InputRef, error) {
	i := strings.LastIndexByte(ref, ':')
	if i <= 0 {
		return InputRef{}, fmt.Errorf("%w: %q", ErrMalformedInputRef, ref)
	}
	index, err := strconv.Atoi(ref[i+1:])
	if err != nil || index < 0 || strconv.Itoa(index) != ref[i+1:] {
		return InputRef{}, fmt.Errorf("%w: %q", ErrMalformedInputRef, ref)
	}
	return InputRef{Hash: digest.Hash(ref[:i]), Index: index}, nil
}

// An Output moves Amount from Sender to Receiver. A later Transaction can only
// spend this Output if all of its own Outputs are sent by Receiver.
type Output struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Amount   uint64 `json:"amount"`
}

// String implements the `fmt.Stringer` interface for the Output type.
func (output Output) String() string {
	return digest.EncodeFields(fieldSep, output.Sender, output.Receiver, output.Amount)
}

// Outputs defines a wrapper type around the []Output type.
type Outputs []Output

// Sum of the Amounts of all Outputs.
func (outputs Outputs) Sum() uint64 {
	sum := uint64(0)
	for _, output := range outputs {
		sum += output.Amount
	}
	return sum
}

// A Transaction spends the outputs referenced by InputRefs and creates new
// Outputs. The Hash is computed once, at construction.
type Transaction struct {
	InputRefs []string    `json:"inputRefs"`
	Outputs   Outputs     `json:"outputs"`
	Hash      digest.Hash `json:"hash"`
}

// New returns a Transaction with its Hash computed.
func New(inputRefs []string, outputs Outputs) *Transaction {
	tx := &Transaction{
		InputRefs: inputRefs,
		Outputs:   outputs,
	}
	tx.Hash = tx.ComputeHash()
	return tx
}

// ComputeHash returns the double hash of the canonical encoding.
func (tx *Transaction) ComputeHash() digest.Hash {
	return digest.DoubleHash(tx.String())
}

// String implements the `fmt.Stringer` interface for the Transaction type. It
// is the canonical encoding of the Transaction.
func (tx *Transaction) String() string {
	refs := make([]interface{}, len(tx.InputRefs))
	for i, ref := range tx.InputRefs {
		refs[i] = ref
	}
	outputs := make([]interface{}, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputs[i] = output
	}
	return digest.EncodeFields(txSep,
		digest.EncodeFields(refSep, refs...),
		digest.EncodeFields(outputSep, outputs...))
}

// IsValid returns true if the Transaction is well-formed: its Hash matches
// its content, every input ref parses, and it has at least one Output with a
// sender, a receiver, and a positive amount. It does not look at any other
// Transaction.
func (tx *Transaction) IsValid() bool {
	if tx == nil {
		return false
	}
	if tx.Hash != tx.ComputeHash() {
		return false
	}
	for _, ref := range tx.InputRefs {
		if _, err := ParseInputRef(ref); err != nil {
			return false
		}
	}
	if len(tx.Outputs) == 0 {
		return false
	}
	for _, output := range tx.Outputs {
		if output.Sender == "" || output.Receiver == "" || output.Amount == 0 {
			return false
		}
	}
	return true
}

// Transactions defines a wrapper type around the []*Transaction type.
type Transactions []*Transaction

// String implements the `fmt.Stringer` interface for the Transactions type.
func (txs Transactions) String() string {
	strs := make([]string, len(txs))
	for i, tx := range txs {
		strs[i] = tx.String()
	}
	return strings.Join(strs, "!")
}
