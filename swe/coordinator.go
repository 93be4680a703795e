package swe

import (
	"math"
	"sync"
)

/*
	TimestepCoordinator is the collective minimum-reduction agreeing one
	global timestep per iteration. Every participant submits its local
	candidate and blocks until all have; each then receives the identical
	reduced scalar, so the applied dt is bit-identical across blocks and
	simulation time stays synchronized domain-wide.

	The reduction is generation-based so one coordinator serves every
	iteration of a run: the participant completing a round installs a
	fresh round before releasing the waiters, and late readers of the
	closed round see its frozen minimum.
*/
type TimestepCoordinator struct {
	participants int
	mu           sync.Mutex
	cur          *reductionRound
}

type reductionRound struct {
	remaining int
	min       float64
	done      chan struct{}
}

func newReductionRound(participants int) *reductionRound {
	return &reductionRound{
		remaining: participants,
		min:       math.Inf(1),
		done:      make(chan struct{}),
	}
}

func NewTimestepCoordinator(participants int) *TimestepCoordinator {
	if participants < 1 {
		panic("timestep coordinator needs at least one participant")
	}
	return &TimestepCoordinator{
		participants: participants,
		cur:          newReductionRound(participants),
	}
}

// Submit contributes a local candidate timestep and blocks until every
// participant of the current iteration has contributed. The returned
// value is the minimum over all submissions.
func (tc *TimestepCoordinator) Submit(dt float64) float64 {
	tc.mu.Lock()
	round := tc.cur
	if dt < round.min {
		round.min = dt
	}
	round.remaining--
	if round.remaining == 0 {
		tc.cur = newReductionRound(tc.participants)
		close(round.done)
	}
	tc.mu.Unlock()

	<-round.done
	return round.min
}
