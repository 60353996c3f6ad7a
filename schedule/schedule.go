// Package schedule defines interfaces and implementations for scheduling the
// authority that is expected to seal a Block under proof-of-authority. At any
// given Height, exactly one authority is expected to seal a Block, and this is
// determined by the Scheduler.
//
// It is important that everyone validating blocks agrees on the schedule. That
// is, at any given Height, every validator must arrive at the same decision
// regarding which authority was expected to seal. This is done by making the
// schedule deterministic and locally computable.
package schedule

import (
	"sync"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/sig"
)

// InvalidSignatory is returned when no authority can be scheduled.
var InvalidSignatory = sig.Signatory{}

// A Scheduler is used to determine which Signatory is expected to seal a Block
// at any given Height. It supports rebasing, allowing the underlying
// Signatories to be changed over time. Schedulers are expected to be safe for
// concurrent use.
type Scheduler interface {
	// Schedule returns the Signatory that is expected to seal a Block at the
	// given Height, and its index amongst the Signatories. If no Signatory is
	// expected to seal a Block, then it returns the InvalidSignatory and -1.
	//
	//  authority, _ := scheduler.Schedule(b.Height)
	//  Expect(signatory).To(Equal(authority))
	//
	Schedule(block.Height) (sig.Signatory, int)

	// Rebase tells the Scheduler that the underlying Signatories has been
	// changed. The Scheduler must only ever schedule Signatories from that most
	// recent rebase.
	Rebase(sig.Signatories)

	// Signatories returns a copy of the current Signatories.
	Signatories() sig.Signatories
}

type roundRobin struct {
	signatoriesMu *sync.Mutex
	signatories   sig.Signatories
}

// RoundRobin returns a Scheduler that uses a round-robin scheduling algorithm
// to select a Signatory. Round-robin scheduling has the advantage of being very
// easy to implement and understand, but has the disadvantage of being unfair.
func RoundRobin(signatories sig.Signatories) Scheduler {
	rr := &roundRobin{
		signatoriesMu: new(sync.Mutex),
	}
	rr.Rebase(signatories)
	return rr
}

// Schedule a Signatory using the Height, modulo the number of Signatories.
func (rr *roundRobin) Schedule(height block.Height) (sig.Signatory, int) {
	rr.signatoriesMu.Lock()
	defer rr.signatoriesMu.Unlock()

	if len(rr.signatories) == 0 {
		return InvalidSignatory, -1
	}
	if height < 0 {
		return InvalidSignatory, -1
	}

	i := int(uint64(height) % uint64(len(rr.signatories)))
	return rr.signatories[i], i
}

// Rebase will replace the underlying Signatories from which the round-robin
// Scheduler will select authorities.
func (rr *roundRobin) Rebase(signatories sig.Signatories) {
	rr.signatoriesMu.Lock()
	defer rr.signatoriesMu.Unlock()

	// Copy signatories into the scheduler to avoid manipulation of the slice,
	// external to the scheduler, from affecting the scheduler.
	rr.signatories = make(sig.Signatories, len(signatories))
	copy(rr.signatories, signatories)
}

func (rr *roundRobin) Signatories() sig.Signatories {
	rr.signatoriesMu.Lock()
	defer rr.signatoriesMu.Unlock()

	signatories := make(sig.Signatories, len(rr.signatories))
	copy(signatories, rr.signatories)
	return signatories
}
