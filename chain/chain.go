// Package chain implements an in-memory, fork-aware store of accepted Blocks.
// Alongside the Blocks it maintains the indices that validation depends on:
// which Blocks include a Transaction, which Blocks spend an input ref, and
// every Transaction ever accepted. Appending a Block validates it and updates
// all indices in one atomic step, so readers never observe a torn index.
package chain

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/tx"
	"github.com/renproject/toychain/validate"

	"go.uber.org/zap"
)

// ErrBlockExists is returned when appending a Block that has already been
// accepted.
var ErrBlockExists = errors.New("block already exists")

// ErrRejected is returned when appending a Block that fails validation.
type ErrRejected struct {
	Hash   digest.Hash
	Reason validate.Reason
}

func (err ErrRejected) Error() string {
	return fmt.Sprintf("block=%v rejected: %v", err.Hash.Short(), err.Reason)
}

// A Chain stores every accepted Block, across all branches.
type Chain struct {
	opts      Options
	validator *validate.Validator

	mu    *sync.RWMutex
	state *state
}

// New returns an empty Chain.
func New(opts Options) *Chain {
	return &Chain{
		opts:      opts,
		validator: validate.New(opts.ValidatorOpts),
		mu:        new(sync.RWMutex),
		state:     newState(),
	}
}

// Append validates the Block against the branch ending at its parent and, if
// it is valid, adds it to the Chain. The Block must not be mutated afterwards.
func (chain *Chain) Append(b *block.Block) error {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	if _, ok := chain.state.blocks[b.Hash]; ok {
		return fmt.Errorf("cannot append block=%v: %w", b.Hash.Short(), ErrBlockExists)
	}
	if ok, reason := chain.validator.Validate(b, chain.state); !ok {
		chain.opts.Logger.Debug("rejected block",
			zap.String("block", b.Hash.Short()),
			zap.Int64("height", int64(b.Height)),
			zap.String("reason", reason.String()))
		return ErrRejected{Hash: b.Hash, Reason: reason}
	}
	chain.state.insert(b)
	chain.opts.Logger.Info("appended block",
		zap.String("block", b.Hash.Short()),
		zap.Int64("height", int64(b.Height)),
		zap.Int("txs", len(b.Transactions)),
		zap.String("tip", chain.state.tip.Short()))
	return nil
}

// Validate the Block against a consistent view of the Chain, without
// appending it.
func (chain *Chain) Validate(b *block.Block) (bool, validate.Reason) {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	return chain.validator.Validate(b, chain.state)
}

// ValidateAll validates independent Blocks in parallel against one consistent
// view of the Chain.
func (chain *Chain) ValidateAll(blocks block.Blocks) []validate.Result {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	return chain.validator.ValidateAll(blocks, chain.state)
}

// View calls f with a Query that will not change until f returns. The Query
// must not be used after f returns.
func (chain *Chain) View(f func(validate.Query)) {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	f(chain.state)
}

// Tip returns the Block at the end of the heaviest branch. It returns false
// if the Chain is empty.
func (chain *Chain) Tip() (*block.Block, bool) {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	b, ok := chain.state.blocks[chain.state.tip]
	return b, ok
}

// Weight returns the cumulative weight of the branch ending at the Block.
func (chain *Chain) Weight(hash digest.Hash) (*big.Int, bool) {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	weight, ok := chain.state.weights[hash]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(weight), true
}

// Len returns the number of Blocks, across all branches.
func (chain *Chain) Len() int {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	return len(chain.state.blocks)
}

// BlockByHash returns the Block with the Hash.
func (chain *Chain) BlockByHash(hash digest.Hash) (*block.Block, bool) {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	return chain.state.BlockByHash(hash)
}

// AncestryEndingAt returns the Hashes of the Blocks from genesis to the Block
// with the Hash, inclusive.
func (chain *Chain) AncestryEndingAt(hash digest.Hash) []digest.Hash {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	return chain.state.AncestryEndingAt(hash)
}

// TransactionByHash returns any accepted Transaction.
func (chain *Chain) TransactionByHash(hash digest.Hash) (*tx.Transaction, bool) {
	chain.mu.RLock()
	defer chain.mu.RUnlock()

	return chain.state.TransactionByHash(hash)
}
