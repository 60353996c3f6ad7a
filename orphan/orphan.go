// Package orphan buffers Blocks that arrive before their parent. A Block can
// only be validated against the branch ending at its parent, so a Block whose
// parent is unknown is held in a Queue until the parent has been accepted.
package orphan

import (
	"sort"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/chain"
	"github.com/renproject/toychain/digest"

	"go.uber.org/zap"
)

// A Queue holds orphaned Blocks sorted by their Height, where Blocks with lower
// Heights are found at the beginning of the Queue. The Queue has a maximum
// capacity, and drops the highest Blocks when it is exceeded. This limits how
// far into the future the Queue will buffer Blocks. Queues are not safe for
// concurrent use.
type Queue struct {
	opts   Options
	blocks block.Blocks
	queued map[digest.Hash]struct{}
}

// New returns an empty Queue.
func New(opts Options) *Queue {
	return &Queue{
		opts:   opts,
		blocks: make(block.Blocks, 0, opts.MaxCapacity),
		queued: map[digest.Hash]struct{}{},
	}
}

// Len returns the number of Blocks in the Queue.
func (q *Queue) Len() int {
	return len(q.blocks)
}

// Insert a Block into the Queue. It returns false if the Block is already
// queued, or if it was dropped because the Queue is full of lower Blocks.
func (q *Queue) Insert(b *block.Block) bool {
	if _, ok := q.queued[b.Hash]; ok {
		return false
	}

	// Insert after every Block at the same Height, so that Blocks at the same
	// Height are consumed in the order that they were inserted.
	insertAt := sort.Search(len(q.blocks), func(i int) bool {
		return q.blocks[i].Height > b.Height
	})
	if insertAt >= q.opts.MaxCapacity {
		q.opts.Logger.Debug("dropped orphan", zap.String("block", b.Hash.Short()), zap.Int64("height", int64(b.Height)))
		return false
	}

	q.blocks = append(q.blocks, nil)
	copy(q.blocks[insertAt+1:], q.blocks[insertAt:])
	q.blocks[insertAt] = b
	q.queued[b.Hash] = struct{}{}

	for len(q.blocks) > q.opts.MaxCapacity {
		dropped := q.blocks[len(q.blocks)-1]
		q.blocks = q.blocks[:len(q.blocks)-1]
		delete(q.queued, dropped.Hash)
		q.opts.Logger.Debug("dropped orphan", zap.String("block", dropped.Hash.Short()), zap.Int64("height", int64(dropped.Height)))
	}
	return true
}

// Consume every Block whose parent is known. The callback is called once for
// every consumed Block, in order of Height, and returns true if the Block was
// accepted. Accepting a Block can make the parent of other Blocks known, so
// Consume continues until no more Blocks can be consumed. All consumed Blocks
// are dropped from the Queue. It returns the number of accepted Blocks.
func (q *Queue) Consume(known func(digest.Hash) bool, f func(*block.Block) bool) (n int) {
	for progress := true; progress; {
		progress = false
		remaining := q.blocks[:0]
		for _, b := range q.blocks {
			if !known(b.ParentHash) {
				remaining = append(remaining, b)
				continue
			}
			delete(q.queued, b.Hash)
			progress = true
			if f(b) {
				n++
			}
		}
		for i := len(remaining); i < len(q.blocks); i++ {
			q.blocks[i] = nil
		}
		q.blocks = remaining
	}
	return
}

// Drain appends every Block in the Queue whose parent is on the Chain. Blocks
// that the Chain rejects are dropped. It returns the number of appended
// Blocks.
func (q *Queue) Drain(c *chain.Chain) int {
	known := func(hash digest.Hash) bool {
		_, ok := c.BlockByHash(hash)
		return ok
	}
	return q.Consume(known, func(b *block.Block) bool {
		if err := c.Append(b); err != nil {
			q.opts.Logger.Debug("dropped orphan", zap.String("block", b.Hash.Short()), zap.Error(err))
			return false
		}
		return true
	})
}
