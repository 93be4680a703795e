package swe

import "fmt"

/*
	CheckpointSchedule is the strictly increasing sequence of simulation
	time instants at which state is persisted, derived once from the total
	duration and the checkpoint count. A monotone cursor tracks which
	instants have been written.
*/
type CheckpointSchedule struct {
	instants []float64
	cursor   int
}

func NewCheckpointSchedule(duration float64, count int) (cs *CheckpointSchedule, err error) {
	if duration <= 0 {
		return nil, fmt.Errorf("simulation duration must be positive, have %g", duration)
	}
	if count < 1 {
		return nil, fmt.Errorf("checkpoint count must be at least 1, have %d", count)
	}
	cs = &CheckpointSchedule{instants: make([]float64, count)}
	// The first checkpoint is reached one delta after t=0; accumulating
	// deltas keeps the spacing identical across the sequence.
	delta := duration / float64(count)
	cs.instants[0] = delta
	for i := 1; i < count; i++ {
		cs.instants[i] = cs.instants[i-1] + delta
	}
	return
}

// Due reports whether the instant at the cursor has been reached.
func (cs *CheckpointSchedule) Due(simTime float64) bool {
	return cs.cursor < len(cs.instants) && simTime >= cs.instants[cs.cursor]
}

func (cs *CheckpointSchedule) Advance() {
	cs.cursor++
}

// Done reports whether the cursor has moved past the final checkpoint.
func (cs *CheckpointSchedule) Done() bool {
	return cs.cursor >= len(cs.instants)
}

func (cs *CheckpointSchedule) Instants() []float64 {
	return cs.instants
}
