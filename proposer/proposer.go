// Package proposer assembles Blocks from pending Transactions. A Proposer
// takes Transactions from a Pool, builds a Block on the tip of a Chain, seals
// it, and offers it to the Chain.
package proposer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/chain"
	"github.com/renproject/toychain/seal"
	"github.com/renproject/toychain/tx"
	"github.com/renproject/toychain/validate"

	"go.uber.org/zap"
)

// ErrEmptyChain is returned when proposing on a Chain without a genesis Block.
var ErrEmptyChain = errors.New("empty chain")

// DefaultBlockInterval is the time between Blocks proposed by Run.
const DefaultBlockInterval = 10 * time.Second

// Options represent the options for a Proposer.
type Options struct {
	Logger          *zap.Logger
	MaxTransactions int
	BlockInterval   time.Duration
}

// DefaultOptions returns the default options for a Proposer.
func DefaultOptions() Options {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return Options{
		Logger:          logger,
		MaxTransactions: block.MaxTransactions,
		BlockInterval:   DefaultBlockInterval,
	}
}

// WithLogger updates the logger used by the Proposer.
func (opts Options) WithLogger(logger *zap.Logger) Options {
	opts.Logger = logger
	return opts
}

// WithMaxTransactions updates the maximum number of Transactions taken from
// the Pool for each Block.
func (opts Options) WithMaxTransactions(max int) Options {
	opts.MaxTransactions = max
	return opts
}

// WithBlockInterval updates the time between Blocks proposed by Run.
func (opts Options) WithBlockInterval(interval time.Duration) Options {
	opts.BlockInterval = interval
	return opts
}

// A Proposer builds and seals Blocks.
type Proposer struct {
	opts    Options
	chain   *chain.Chain
	pool    tx.Pool
	sealer  block.Sealer
	sealing seal.Sealing
}

// New returns a Proposer that extends the Chain with Transactions from the
// Pool. Blocks are assembled with the Sealer, and sealed with the Sealing.
func New(opts Options, chain *chain.Chain, pool tx.Pool, sealer block.Sealer, sealing seal.Sealing) *Proposer {
	return &Proposer{
		opts:    opts,
		chain:   chain,
		pool:    pool,
		sealer:  sealer,
		sealing: sealing,
	}
}

// Genesis assembles, seals and appends a genesis Block with the
// Transactions.
func (proposer *Proposer) Genesis(ctx context.Context, txs tx.Transactions) (*block.Block, error) {
	b := block.New(proposer.sealer, 0, txs, block.GenesisParentHash, true)
	if err := proposer.sealing(ctx, b); err != nil {
		return nil, err
	}
	if err := proposer.chain.Append(b); err != nil {
		return nil, fmt.Errorf("cannot append genesis: %w", err)
	}
	return b, nil
}

// screeningSealer accepts every seal, so that a trial Block can be validated
// against the Chain before it has been sealed.
type screeningSealer struct {
	block.Sealer
}

func (screeningSealer) SealIsValid(*block.Block) bool {
	return true
}

// Propose assembles and seals a Block on the tip of the Chain, using
// Transactions from the Pool. Every Transaction is screened against the tip
// before it is included, and Transactions that would make the Block invalid
// are dropped. If the Block cannot be sealed, its Transactions are returned to
// the Pool. It does not append the Block.
func (proposer *Proposer) Propose(ctx context.Context) (*block.Block, error) {
	parent, ok := proposer.chain.Tip()
	if !ok {
		return nil, ErrEmptyChain
	}

	// The timestamp must not decrease along the chain, even if the clock of
	// the parent was ahead.
	timestamp := block.Timestamp(time.Now().Unix())
	if timestamp < parent.Timestamp {
		timestamp = parent.Timestamp
	}

	txs := tx.Transactions{}
	for len(txs) < proposer.opts.MaxTransactions {
		transaction, ok := proposer.pool.Dequeue()
		if !ok {
			break
		}
		if !transaction.IsValid() {
			proposer.dropped(transaction, validate.MalformedTransaction)
			continue
		}
		candidate := append(txs[:len(txs):len(txs)], transaction)
		trial := block.NewAt(screeningSealer{proposer.sealer}, parent.Height+1, candidate, parent.Hash, false, timestamp)
		if ok, reason := proposer.chain.Validate(trial); !ok {
			if reason == validate.TooManyTransactions {
				proposer.requeue(tx.Transactions{transaction})
				break
			}
			proposer.dropped(transaction, reason)
			continue
		}
		txs = candidate
	}

	b := block.NewAt(proposer.sealer, parent.Height+1, txs, parent.Hash, false, timestamp)
	if err := proposer.sealing(ctx, b); err != nil {
		proposer.requeue(txs)
		return nil, err
	}
	proposer.opts.Logger.Debug("proposed block",
		zap.String("block", b.Hash.Short()),
		zap.Int64("height", int64(b.Height)),
		zap.Int("txs", len(txs)))
	return b, nil
}

// ProposeAndAppend proposes a Block and appends it to the Chain. If the Chain
// rejects the Block, its Transactions are returned to the Pool.
func (proposer *Proposer) ProposeAndAppend(ctx context.Context) (*block.Block, error) {
	b, err := proposer.Propose(ctx)
	if err != nil {
		return nil, err
	}
	if err := proposer.chain.Append(b); err != nil {
		proposer.requeue(b.Transactions)
		return nil, err
	}
	return b, nil
}

func (proposer *Proposer) requeue(txs tx.Transactions) {
	for _, transaction := range txs {
		if err := proposer.pool.Enqueue(transaction); err != nil {
			proposer.opts.Logger.Warn("cannot requeue transaction", zap.String("tx", transaction.Hash.Short()), zap.Error(err))
		}
	}
}

func (proposer *Proposer) dropped(transaction *tx.Transaction, reason validate.Reason) {
	hash := ""
	if transaction != nil {
		hash = transaction.Hash.Short()
	}
	proposer.opts.Logger.Debug("dropped transaction", zap.String("tx", hash), zap.String("reason", reason.String()))
}

// Run proposes and appends a Block every BlockInterval until the context is
// done. Blocks that cannot be sealed or appended are logged and skipped.
func (proposer *Proposer) Run(ctx context.Context) {
	ticker := time.NewTicker(proposer.opts.BlockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if _, err := proposer.ProposeAndAppend(ctx); err != nil {
			proposer.opts.Logger.Warn("cannot propose block", zap.Error(err))
		}
	}
}
