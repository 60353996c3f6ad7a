// Package pow implements a proof-of-work Sealer. The seal is a nonce, and a
// Block is sealed when its Hash, read as a 256-bit integer, is below the
// Target. The Target is fixed by Options; it is never recalculated.
package pow

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/digest"
	"github.com/sirupsen/logrus"
)

// MaxTarget is the largest possible Target (2^256 - 1).
var MaxTarget = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// DefaultBits is the number of leading zero bits required by default.
const DefaultBits = 8

// Options for the proof-of-work Sealer.
type Options struct {
	Logger logrus.FieldLogger
	Bits   uint
}

// DefaultOptions returns the default options for the proof-of-work Sealer.
func DefaultOptions() Options {
	return Options{
		Logger: loggerWithFields(logrus.New()),
		Bits:   DefaultBits,
	}
}

// WithBits updates the number of leading zero bits that a sealed Hash must
// have.
func (opts Options) WithBits(bits uint) Options {
	opts.Bits = bits
	return opts
}

// WithLogger updates the logger used by the Sealer.
func (opts Options) WithLogger(logger logrus.FieldLogger) Options {
	opts.Logger = logger
	return opts
}

func loggerWithFields(logger *logrus.Logger) logrus.FieldLogger {
	return logger.
		WithField("lib", "toychain").
		WithField("pkg", "pow").
		WithField("com", "sealer")
}

// Sealer for proof-of-work Blocks.
type Sealer struct {
	opts   Options
	target *big.Int
}

// New returns a proof-of-work Sealer.
func New(opts Options) *Sealer {
	if opts.Bits > 255 {
		panic(fmt.Sprintf("pre-condition violation: bits=%d must be less than 256", opts.Bits))
	}
	return &Sealer{
		opts:   opts,
		target: new(big.Int).Rsh(MaxTarget, opts.Bits),
	}
}

// Target returns a copy of the fixed Target.
func (sealer *Sealer) Target() *big.Int {
	return new(big.Int).Set(sealer.target)
}

// CalculateAppropriateTarget implements the block.Sealer interface.
func (sealer *Sealer) CalculateAppropriateTarget(*block.Block) *big.Int {
	return sealer.Target()
}

// SealIsValid implements the block.Sealer interface. The Block must carry the
// configured Target, and its Hash must be below it.
func (sealer *Sealer) SealIsValid(b *block.Block) bool {
	if b.Target == nil || b.Target.Cmp(sealer.target) != 0 {
		return false
	}
	return meetsTarget(b.ComputeHash(), sealer.target)
}

// Weight implements the block.Sealer interface. It is the expected number of
// hashes needed to meet the Target of the Block.
func (sealer *Sealer) Weight(b *block.Block) *big.Int {
	target := b.Target
	if target == nil || target.Sign() < 0 {
		return new(big.Int)
	}
	denominator := new(big.Int).Add(target, big.NewInt(1))
	return new(big.Int).Div(new(big.Int).Lsh(big.NewInt(1), 256), denominator)
}

// Seal searches for a nonce that seals the Block. It returns an error if the
// context is done first.
func (sealer *Sealer) Seal(ctx context.Context, b *block.Block) error {
	for i := uint64(0); ; i++ {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("cannot seal block at height=%d: %v", b.Height, ctx.Err())
			default:
			}
		}
		nonce := make([]byte, 8)
		binary.BigEndian.PutUint64(nonce, i)
		b.SetSeal(nonce)
		if meetsTarget(b.Hash, sealer.target) {
			sealer.opts.Logger.Debugf("sealed block=%v at height=%d with nonce=%d", b.Hash.Short(), b.Height, i)
			return nil
		}
	}
}

func meetsTarget(hash digest.Hash, target *big.Int) bool {
	value, ok := new(big.Int).SetString(string(hash), 16)
	if !ok {
		return false
	}
	return value.Cmp(target) < 0
}
