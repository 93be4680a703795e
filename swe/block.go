package swe

import (
	"fmt"

	"github.com/hydrosolve/swe2d/grid"
	"github.com/hydrosolve/swe2d/scenario"
	"github.com/hydrosolve/swe2d/solver"
)

/*
	Block owns one rectangular subdomain of the simulated domain: an
	interior of Nx x Ny cells carrying water height H, momenta Hu/Hv and
	bathymetry B, all allocated (Nx+2)x(Ny+2) to hold a one-cell ghost
	halo. Ghost cells are written only by the boundary rules, the corner
	rule, or an incoming copy layer from a neighbour; the flux and update
	loops never touch them.

	A block computes independently and interacts with the rest of the
	domain only through copy-layer messages on its CONNECT sides and
	through the collective timestep reduction.
*/
type Block struct {
	Nx, Ny           int
	Dx, Dy           float64
	OriginX, OriginY float64
	PosX, PosY       int

	H, Hu, Hv, B grid.Float2D

	BoundaryTypes [grid.NumSides]grid.BoundaryType
	NeighbourIdx  [grid.NumSides]int // block index per side, -1 when none

	Solver    solver.NetUpdateSolver
	CFLNumber float64
	DryTol    float64

	// Net update scratch, one pair per quantity and sweep direction.
	// Recomputed every iteration, never persisted across iterations.
	hNetUpdatesLeft, hNetUpdatesRight   grid.Float2D
	huNetUpdatesLeft, huNetUpdatesRight grid.Float2D
	hNetUpdatesBelow, hNetUpdatesAbove  grid.Float2D
	hvNetUpdatesBelow, hvNetUpdatesAbove grid.Float2D

	// MaxTimestep is the CFL-limited local candidate after
	// ComputeNumericalFluxes, replaced by the globally agreed value
	// before UpdateUnknowns.
	MaxTimestep float64
	SimTime     float64

	// Interface partitions for the intra-block parallel sweeps, plus an
	// interior-row partition for the cell update loop.
	partX, partY, partCells *PartitionMap

	inbox          chan *CopyLayer
	outbox         [grid.NumSides]chan<- *CopyLayer
	sentBathymetry bool
}

const DefaultCFLNumber = 0.4

func NewBlock(nx, ny int, dx, dy, originX, originY float64, posX, posY int,
	s solver.NetUpdateSolver, parallelDegree int) (b *Block) {
	if nx < 1 || ny < 1 {
		panic(fmt.Errorf("invalid block size %dx%d", nx, ny))
	}
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	b = &Block{
		Nx: nx, Ny: ny,
		Dx: dx, Dy: dy,
		OriginX: originX, OriginY: originY,
		PosX: posX, PosY: posY,
		H:  grid.NewFloat2D(nx, ny),
		Hu: grid.NewFloat2D(nx, ny),
		Hv: grid.NewFloat2D(nx, ny),
		B:  grid.NewFloat2D(nx, ny),

		hNetUpdatesLeft:  grid.NewFloat2D(nx, ny),
		hNetUpdatesRight: grid.NewFloat2D(nx, ny),
		huNetUpdatesLeft: grid.NewFloat2D(nx, ny),
		huNetUpdatesRight: grid.NewFloat2D(nx, ny),
		hNetUpdatesBelow: grid.NewFloat2D(nx, ny),
		hNetUpdatesAbove: grid.NewFloat2D(nx, ny),
		hvNetUpdatesBelow: grid.NewFloat2D(nx, ny),
		hvNetUpdatesAbove: grid.NewFloat2D(nx, ny),

		Solver:    s,
		CFLNumber: DefaultCFLNumber,
		DryTol:    solver.DefaultDryTol,

		partX:     NewPartitionMap(parallelDegree, nx+1),
		partY:     NewPartitionMap(parallelDegree, ny+1),
		partCells: NewPartitionMap(parallelDegree, nx),
		inbox:     make(chan *CopyLayer, grid.NumSides),
	}
	for side := range b.BoundaryTypes {
		b.BoundaryTypes[side] = grid.PASSIVE
		b.NeighbourIdx[side] = -1
	}
	return
}

/*
	InitScenario samples the provider at every interior cell center to
	set bathymetry, water height and momentum (velocity times height),
	installs the per-side boundary types and populates the ghost halo.
	Called exactly once, before any iteration.

	The ghost layer is shifted out of the sampled region: index [1][1]
	maps to (originX+dx/2, originY+dy/2).
*/
func (b *Block) InitScenario(sc scenario.Scenario, boundaries [grid.NumSides]grid.BoundaryType) {
	for x := 1; x <= b.Nx; x++ {
		px := b.OriginX + (float64(x)-0.5)*b.Dx
		for y := 1; y <= b.Ny; y++ {
			py := b.OriginY + (float64(y)-0.5)*b.Dy
			h := sc.GetWaterHeight(px, py)
			b.B.Set(x, y, sc.GetBathymetry(px, py))
			b.H.Set(x, y, h)
			b.Hu.Set(x, y, sc.GetVelocU(px, py)*h)
			b.Hv.Set(x, y, sc.GetVelocV(px, py)*h)
		}
	}
	b.BoundaryTypes = boundaries
	b.ApplyBoundaryConditions()
	b.ApplyBoundaryBathymetry()
}

/*
	ApplyBoundaryConditions writes the ghost layers of the non-CONNECT
	sides:

	  WALL    - height copied from the adjacent interior cell, normal
	            momentum negated, tangential momentum unchanged
	  OUTFLOW - all three quantities copied unchanged
	  CONNECT - supplied by the boundary exchange, nothing written here
	  PASSIVE - owned by an external component, nothing written here

	The four corner ghost cells are always set to their nearest diagonal
	interior cell, regardless of the adjacent side types: dimensional
	splitting then sees a steady-state (zero) Riemann problem at each
	corner.
*/
func (b *Block) ApplyBoundaryConditions() {
	var (
		nx, ny = b.Nx, b.Ny
	)
	switch b.BoundaryTypes[grid.SideLeft] {
	case grid.WALL:
		for y := 1; y <= ny; y++ {
			b.H.Set(0, y, b.H.At(1, y))
			b.Hu.Set(0, y, -b.Hu.At(1, y))
			b.Hv.Set(0, y, b.Hv.At(1, y))
		}
	case grid.OUTFLOW:
		for y := 1; y <= ny; y++ {
			b.H.Set(0, y, b.H.At(1, y))
			b.Hu.Set(0, y, b.Hu.At(1, y))
			b.Hv.Set(0, y, b.Hv.At(1, y))
		}
	case grid.CONNECT, grid.PASSIVE:
	default:
		panic(fmt.Errorf("unhandled boundary type %d on left side", b.BoundaryTypes[grid.SideLeft]))
	}

	switch b.BoundaryTypes[grid.SideRight] {
	case grid.WALL:
		for y := 1; y <= ny; y++ {
			b.H.Set(nx+1, y, b.H.At(nx, y))
			b.Hu.Set(nx+1, y, -b.Hu.At(nx, y))
			b.Hv.Set(nx+1, y, b.Hv.At(nx, y))
		}
	case grid.OUTFLOW:
		for y := 1; y <= ny; y++ {
			b.H.Set(nx+1, y, b.H.At(nx, y))
			b.Hu.Set(nx+1, y, b.Hu.At(nx, y))
			b.Hv.Set(nx+1, y, b.Hv.At(nx, y))
		}
	case grid.CONNECT, grid.PASSIVE:
	default:
		panic(fmt.Errorf("unhandled boundary type %d on right side", b.BoundaryTypes[grid.SideRight]))
	}

	switch b.BoundaryTypes[grid.SideBottom] {
	case grid.WALL:
		for x := 1; x <= nx; x++ {
			b.H.Set(x, 0, b.H.At(x, 1))
			b.Hu.Set(x, 0, b.Hu.At(x, 1))
			b.Hv.Set(x, 0, -b.Hv.At(x, 1))
		}
	case grid.OUTFLOW:
		for x := 1; x <= nx; x++ {
			b.H.Set(x, 0, b.H.At(x, 1))
			b.Hu.Set(x, 0, b.Hu.At(x, 1))
			b.Hv.Set(x, 0, b.Hv.At(x, 1))
		}
	case grid.CONNECT, grid.PASSIVE:
	default:
		panic(fmt.Errorf("unhandled boundary type %d on bottom side", b.BoundaryTypes[grid.SideBottom]))
	}

	switch b.BoundaryTypes[grid.SideTop] {
	case grid.WALL:
		for x := 1; x <= nx; x++ {
			b.H.Set(x, ny+1, b.H.At(x, ny))
			b.Hu.Set(x, ny+1, b.Hu.At(x, ny))
			b.Hv.Set(x, ny+1, -b.Hv.At(x, ny))
		}
	case grid.OUTFLOW:
		for x := 1; x <= nx; x++ {
			b.H.Set(x, ny+1, b.H.At(x, ny))
			b.Hu.Set(x, ny+1, b.Hu.At(x, ny))
			b.Hv.Set(x, ny+1, b.Hv.At(x, ny))
		}
	case grid.CONNECT, grid.PASSIVE:
	default:
		panic(fmt.Errorf("unhandled boundary type %d on top side", b.BoundaryTypes[grid.SideTop]))
	}

	// Corner ghost cells, always the nearest diagonal interior value.
	for _, f := range []grid.Float2D{b.H, b.Hu, b.Hv} {
		f.Set(0, 0, f.At(1, 1))
		f.Set(0, ny+1, f.At(1, ny))
		f.Set(nx+1, 0, f.At(nx, 1))
		f.Set(nx+1, ny+1, f.At(nx, ny))
	}
}

// ApplyBoundaryBathymetry mirrors the adjacent interior bathymetry into
// the ghost layer of WALL and OUTFLOW sides. Must be re-run whenever a
// side changes to one of those types or the bathymetry itself changes.
func (b *Block) ApplyBoundaryBathymetry() {
	var (
		nx, ny = b.Nx, b.Ny
	)
	if bt := b.BoundaryTypes[grid.SideLeft]; bt == grid.WALL || bt == grid.OUTFLOW {
		copy(b.B.Row(0), b.B.Row(1))
	}
	if bt := b.BoundaryTypes[grid.SideRight]; bt == grid.WALL || bt == grid.OUTFLOW {
		copy(b.B.Row(nx+1), b.B.Row(nx))
	}
	if bt := b.BoundaryTypes[grid.SideBottom]; bt == grid.WALL || bt == grid.OUTFLOW {
		for x := 0; x <= nx+1; x++ {
			b.B.Set(x, 0, b.B.At(x, 1))
		}
	}
	if bt := b.BoundaryTypes[grid.SideTop]; bt == grid.WALL || bt == grid.OUTFLOW {
		for x := 0; x <= nx+1; x++ {
			b.B.Set(x, ny+1, b.B.At(x, ny))
		}
	}

	b.B.Set(0, 0, b.B.At(1, 1))
	b.B.Set(0, ny+1, b.B.At(1, ny))
	b.B.Set(nx+1, 0, b.B.At(nx, 1))
	b.B.Set(nx+1, ny+1, b.B.At(nx, ny))
}

func (b *Block) SetBoundaryType(side grid.Side, bt grid.BoundaryType) {
	b.BoundaryTypes[side] = bt
}
