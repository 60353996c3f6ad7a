// Package testutil provides random values, mock Sealers and Block builders
// that are shared by the tests of other packages.
package testutil

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"math/rand"
	"reflect"
	"testing/quick"
	"time"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/sig"
	"github.com/renproject/toychain/tx"
)

var r *rand.Rand

func init() {
	r = rand.New(rand.NewSource(time.Now().Unix()))
}

// RandomBytesSlice returns a random bytes slice.
func RandomBytesSlice() []byte {
	t := reflect.TypeOf([]byte{})
	value, ok := quick.Value(t, r)
	if !ok {
		panic(fmt.Sprintf("cannot generate random value of type %v", t.Name()))
	}
	return value.Interface().([]byte)
}

// RandomHash returns a random digest.Hash.
func RandomHash() digest.Hash {
	data := make([]byte, 32)
	r.Read(data)
	return digest.Hash(hex.EncodeToString(data))
}

// RandomHeight returns a random, non-negative block.Height.
func RandomHeight() block.Height {
	return block.Height(r.Int63())
}

// RandomSignatories returns between 1 and 10 random Signatories.
func RandomSignatories() sig.Signatories {
	signatories := make(sig.Signatories, 1+r.Intn(10))
	for i := range signatories {
		r.Read(signatories[i][:])
	}
	return signatories
}

// RandomUser returns a random user name.
func RandomUser() string {
	return fmt.Sprintf("user-%x", r.Uint64())
}

// RandomTransaction returns a well-formed Transaction without inputs.
func RandomTransaction() *tx.Transaction {
	sender := RandomUser()
	outputs := make(tx.Outputs, 1+r.Intn(3))
	for i := range outputs {
		outputs[i] = tx.Output{
			Sender:   sender,
			Receiver: RandomUser(),
			Amount:   1 + uint64(r.Intn(1000)),
		}
	}
	return tx.New(nil, outputs)
}

// RandomTransactions returns n well-formed Transactions without inputs.
func RandomTransactions(n int) tx.Transactions {
	txs := make(tx.Transactions, n)
	for i := range txs {
		txs[i] = RandomTransaction()
	}
	return txs
}

// Coinbase returns a Transaction, without inputs, that pays the amount to the
// receiver. Transactions without inputs only pass validation in genesis
// Blocks.
func Coinbase(receiver string, amount uint64) *tx.Transaction {
	return tx.New(nil, tx.Outputs{{Sender: "coinbase", Receiver: receiver, Amount: amount}})
}

// Spend returns a Transaction that spends the output of the input at the
// index, paying the amount to the receiver and returning any change.
func Spend(input *tx.Transaction, index int, receiver string, amount uint64) *tx.Transaction {
	output := input.Outputs[index]
	outputs := tx.Outputs{{Sender: output.Receiver, Receiver: receiver, Amount: amount}}
	if output.Amount > amount {
		outputs = append(outputs, tx.Output{Sender: output.Receiver, Receiver: output.Receiver, Amount: output.Amount - amount})
	}
	return tx.New([]string{tx.NewInputRef(input.Hash, index)}, outputs)
}

// MockSealer is a block.Sealer that accepts, or rejects, every seal.
type MockSealer struct {
	Valid bool
}

// CalculateAppropriateTarget implements the block.Sealer interface.
func (sealer MockSealer) CalculateAppropriateTarget(*block.Block) *big.Int {
	return big.NewInt(1)
}

// SealIsValid implements the block.Sealer interface.
func (sealer MockSealer) SealIsValid(*block.Block) bool {
	return sealer.Valid
}

// Weight implements the block.Sealer interface.
func (sealer MockSealer) Weight(*block.Block) *big.Int {
	return big.NewInt(1)
}

// Genesis returns a genesis Block with the Transactions, sealed with a
// MockSealer that accepts every seal.
func Genesis(txs ...*tx.Transaction) *block.Block {
	b := block.NewAt(MockSealer{Valid: true}, 0, txs, block.GenesisParentHash, true, block.Timestamp(1600000000))
	b.SetSeal([]byte{0})
	return b
}

// NextBlock returns a Block with the Transactions that extends the parent,
// sealed with a MockSealer that accepts every seal.
func NextBlock(parent *block.Block, txs ...*tx.Transaction) *block.Block {
	b := block.NewAt(MockSealer{Valid: true}, parent.Height+1, txs, parent.Hash, false, parent.Timestamp+1)
	b.SetSeal([]byte{0})
	return b
}
