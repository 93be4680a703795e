package solver

import (
	"fmt"
	"strings"
)

const (
	Gravity = 9.81

	// DefaultDryTol is the water height below which a cell is treated as
	// vacuum. No velocity is derived for such cells.
	DefaultDryTol = 0.01
)

/*
	NetUpdateSolver solves the one dimensional shallow water Riemann
	problem at a single cell interface. Inputs are the left/right water
	height, the momentum component normal to the interface, and the
	bathymetry on both sides.

	The outputs are net updates, not fluxes: hUpdateLeft/huUpdateLeft
	accumulate into the cell left of the interface, the Right pair into
	the right cell, and the update formula subtracts them scaled by
	dt/dx. For wet/wet interfaces the left and right updates of each
	quantity sum exactly to the interface flux difference (plus the
	bathymetry source term), which is what makes the scheme conservative.

	maxWaveSpeed is a local bound on the fastest wave generated at this
	interface, used for the CFL timestep restriction. It is zero only if
	both adjacent cells are dry.
*/
type NetUpdateSolver interface {
	ComputeNetUpdates(hLeft, hRight, huLeft, huRight, bLeft, bRight float64) (
		hUpdateLeft, hUpdateRight, huUpdateLeft, huUpdateRight, maxWaveSpeed float64)
}

type SolverType uint

const (
	SOLVER_FWave SolverType = iota
	SOLVER_HLLE
)

var (
	SolverNames = map[string]SolverType{
		"fwave": SOLVER_FWave,
		"hlle":  SOLVER_HLLE,
	}
	SolverPrintNames = []string{"FWave", "HLLE"}
)

func (st SolverType) Print() (txt string) {
	txt = SolverPrintNames[st]
	return
}

func NewSolverType(label string) (st SolverType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if st, ok = SolverNames[label]; !ok {
		err = fmt.Errorf("unable to use solver named %s", label)
		panic(err)
	}
	return
}

func New(st SolverType) NetUpdateSolver {
	switch st {
	case SOLVER_FWave:
		return NewFWave()
	case SOLVER_HLLE:
		return NewHLLE()
	}
	panic(fmt.Errorf("unable to construct solver of type %d", st))
}
