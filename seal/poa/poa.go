// Package poa implements a proof-of-authority Sealer. Authorities take turns
// sealing Blocks in a round-robin schedule by Height. The Target of a Block is
// the index of its scheduled authority, and the seal is that authority's ECDSA
// signature over the unsealed header.
package poa

import (
	"context"
	"fmt"
	"math/big"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/schedule"
	"github.com/renproject/toychain/seal"
	"github.com/renproject/toychain/sig"
	"github.com/renproject/toychain/sig/ecdsa"
)

// Sealer for proof-of-authority Blocks.
type Sealer struct {
	scheduler schedule.Scheduler
	verifier  sig.Verifier
}

// New returns a proof-of-authority Sealer that schedules the authorities using
// a round-robin Scheduler.
func New(authorities sig.Signatories) *Sealer {
	return NewWithScheduler(schedule.RoundRobin(authorities))
}

// NewWithScheduler returns a proof-of-authority Sealer that uses the given
// Scheduler.
func NewWithScheduler(scheduler schedule.Scheduler) *Sealer {
	return &Sealer{
		scheduler: scheduler,
		verifier:  ecdsa.NewVerifier(),
	}
}

// SealHash returns the Hash that an authority signs to seal the Block.
func SealHash(b *block.Block) sig.Hash {
	return ecdsa.Hash([]byte(b.UnsealedHeader()))
}

// CalculateAppropriateTarget implements the block.Sealer interface. The Target
// is the index of the authority scheduled at the Height of the Block, or -1 if
// no authority is scheduled.
func (sealer *Sealer) CalculateAppropriateTarget(b *block.Block) *big.Int {
	_, index := sealer.scheduler.Schedule(b.Height)
	return big.NewInt(int64(index))
}

// SealIsValid implements the block.Sealer interface.
func (sealer *Sealer) SealIsValid(b *block.Block) bool {
	authority, index := sealer.scheduler.Schedule(b.Height)
	if index < 0 {
		return false
	}
	if b.Target == nil || !b.Target.IsInt64() || b.Target.Int64() != int64(index) {
		return false
	}
	if len(b.SealData) != len(sig.Signature{}) {
		return false
	}
	signature := sig.Signature{}
	copy(signature[:], b.SealData)
	signatory, err := sealer.verifier.Verify(SealHash(b), signature)
	if err != nil {
		return false
	}
	return signatory.Equal(authority)
}

// Weight implements the block.Sealer interface. Every Block has the same
// weight, so the longest chain is the heaviest.
func (sealer *Sealer) Weight(*block.Block) *big.Int {
	return big.NewInt(1)
}

// Sealing returns a seal.Sealing function that signs Blocks using the signer.
// It fails for Blocks at Heights where the signer is not scheduled.
func (sealer *Sealer) Sealing(signer sig.Signer) seal.Sealing {
	return func(ctx context.Context, b *block.Block) error {
		return sealer.Seal(b, signer)
	}
}

// Seal the Block by signing it.
func (sealer *Sealer) Seal(b *block.Block, signer sig.Signer) error {
	authority, _ := sealer.scheduler.Schedule(b.Height)
	if !authority.Equal(signer.Signatory()) {
		return fmt.Errorf("cannot seal block at height=%d: signatory=%v is not the scheduled authority=%v", b.Height, signer.Signatory(), authority)
	}
	signature, err := signer.Sign(SealHash(b))
	if err != nil {
		return fmt.Errorf("cannot seal block at height=%d: %v", b.Height, err)
	}
	b.SetSeal(signature[:])
	return nil
}
