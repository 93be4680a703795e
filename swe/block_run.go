package swe

import (
	"github.com/sirupsen/logrus"

	"github.com/hydrosolve/swe2d/writer"
)

// phase is one state of the per-iteration block state machine.
type phase int

const (
	phaseAwaitingGhosts phase = iota
	phaseComputingFlux
	phaseAwaitingGlobalDt
	phaseUpdatingUnknowns
)

/*
	Iterate advances the block by one iteration:

	  AwaitingGhosts    - copy layers for all CONNECT sides are sent,
	                      then awaited (applied as they arrive, in any
	                      order); local boundary rules fill the
	                      remaining sides
	  ComputingFlux     - x-sweep then y-sweep, producing the local
	                      CFL timestep candidate
	  AwaitingGlobalDt  - the candidate joins the collective minimum
	                      reduction; the agreed value replaces it
	  UpdatingUnknowns  - the agreed dt is applied uniformly, then the
	                      simulation clock advances

	The two waits are cooperative suspensions on channels. A block with
	no CONNECT sides passes through AwaitingGhosts without waiting.
*/
func (b *Block) Iterate(coord *TimestepCoordinator) error {
	ph := phaseAwaitingGhosts
	for {
		switch ph {
		case phaseAwaitingGhosts:
			b.SendCopyLayers(!b.sentBathymetry)
			b.sentBathymetry = true
			if err := b.ReceiveGhostLayers(); err != nil {
				return err
			}
			b.ApplyBoundaryConditions()
			ph = phaseComputingFlux

		case phaseComputingFlux:
			if err := b.ComputeNumericalFluxes(); err != nil {
				return err
			}
			ph = phaseAwaitingGlobalDt

		case phaseAwaitingGlobalDt:
			b.MaxTimestep = coord.Submit(b.MaxTimestep)
			ph = phaseUpdatingUnknowns

		case phaseUpdatingUnknowns:
			b.UpdateUnknowns(b.MaxTimestep)
			b.SimTime += b.MaxTimestep
			return nil
		}
	}
}

/*
	Run drives the block from t=0 through its final checkpoint: an
	initial write, then iterations interleaved with checkpoint decisions
	at iteration boundaries only. Returning nil is the block's completion
	signal; the controller waits for all blocks before declaring the run
	finished.
*/
func (b *Block) Run(coord *TimestepCoordinator, cs *CheckpointSchedule, w writer.Writer) error {
	if err := w.WriteTimeStep(b.SimTime, b.H, b.Hu, b.Hv); err != nil {
		return err
	}
	for !cs.Done() {
		if err := b.Iterate(coord); err != nil {
			return err
		}
		logrus.Debugf("block (%d,%d): t=%.6f dt=%.6f", b.PosX, b.PosY, b.SimTime, b.MaxTimestep)
		for cs.Due(b.SimTime) {
			if err := w.WriteTimeStep(b.SimTime, b.H, b.Hu, b.Hv); err != nil {
				return err
			}
			cs.Advance()
		}
	}
	logrus.Infof("block (%d,%d): finished at t=%.4f", b.PosX, b.PosY, b.SimTime)
	return nil
}
