// Package seal groups the consensus-specific Sealers that a Block can be
// parameterised over. Each sub-package implements block.Sealer and exposes a
// way to produce a valid seal for an assembled Block.
package seal

import (
	"context"

	"github.com/renproject/toychain/block"
)

// A Sealing sets the SealData of an assembled Block so that it satisfies the
// Block's Target. It must only be called before the Block is offered to a
// chain.
type Sealing func(ctx context.Context, b *block.Block) error
