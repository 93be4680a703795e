package swe

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// ErrDryDomain is returned by ComputeNumericalFluxes when every cell is
// below the dry tolerance and the maximum wave speed is zero, leaving
// the CFL timestep undefined. It is a local numerics condition, distinct
// from a communication fault.
var ErrDryDomain = errors.New("all cells dry, maximum wave speed is zero, timestep undefined")

// dtConsistencyTol bounds the allowed difference between the dt passed
// to UpdateUnknowns and the globally agreed timestep.
const dtConsistencyTol = 1e-8

// parallelFor runs body over each partition's half-open index range on
// its own goroutine and waits for all of them.
func parallelFor(pm *PartitionMap, body func(np, lo, hi int)) {
	var wg sync.WaitGroup
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			lo, hi := pm.GetBucketRange(np)
			body(np, lo, hi)
		}(np)
	}
	wg.Wait()
}

/*
	ComputeNumericalFluxes runs the two dimensional-splitting sweeps: the
	x-sweep over all nx+1 vertical interfaces spanning rows 1..ny, then
	the y-sweep over all ny+1 horizontal interfaces spanning columns
	1..nx. Each interface invokes the Riemann solver once and writes to
	two disjoint destination cells, so interfaces within a sweep carry no
	ordering; they are range-partitioned across goroutines.

	On success the CFL-limited local timestep candidate is stored in
	MaxTimestep, ready for submission to the global reduction.
*/
func (b *Block) ComputeNumericalFluxes() error {
	var (
		nx, ny  = b.Nx, b.Ny
		speedsX = make([]float64, b.partX.ParallelDegree)
		speedsY = make([]float64, b.partY.ParallelDegree)
	)

	// x-sweep: interface x sits between cells x and x+1 of each row.
	parallelFor(b.partX, func(np, lo, hi int) {
		var maxSpeed float64
		for x := lo; x < hi; x++ {
			var (
				hL, hR   = b.H.Row(x), b.H.Row(x + 1)
				huL, huR = b.Hu.Row(x), b.Hu.Row(x + 1)
				bL, bR   = b.B.Row(x), b.B.Row(x + 1)
				updHL    = b.hNetUpdatesLeft.Row(x)
				updHR    = b.hNetUpdatesRight.Row(x + 1)
				updHuL   = b.huNetUpdatesLeft.Row(x)
				updHuR   = b.huNetUpdatesRight.Row(x + 1)
			)
			for y := 1; y <= ny; y++ {
				hl, hr, hul, hur, speed := b.Solver.ComputeNetUpdates(
					hL[y], hR[y], huL[y], huR[y], bL[y], bR[y])
				updHL[y], updHR[y] = hl, hr
				updHuL[y], updHuR[y] = hul, hur
				if speed > maxSpeed {
					maxSpeed = speed
				}
			}
		}
		speedsX[np] = maxSpeed
	})

	// y-sweep: interface y sits between cells y and y+1 of each column.
	parallelFor(b.partY, func(np, lo, hi int) {
		var maxSpeed float64
		for x := 1; x <= nx; x++ {
			var (
				h    = b.H.Row(x)
				hv   = b.Hv.Row(x)
				bath = b.B.Row(x)
				updHBelow  = b.hNetUpdatesBelow.Row(x)
				updHAbove  = b.hNetUpdatesAbove.Row(x)
				updHvBelow = b.hvNetUpdatesBelow.Row(x)
				updHvAbove = b.hvNetUpdatesAbove.Row(x)
			)
			for y := lo; y < hi; y++ {
				hb, ha, hvb, hva, speed := b.Solver.ComputeNetUpdates(
					h[y], h[y+1], hv[y], hv[y+1], bath[y], bath[y+1])
				updHBelow[y], updHAbove[y+1] = hb, ha
				updHvBelow[y], updHvAbove[y+1] = hvb, hva
				if speed > maxSpeed {
					maxSpeed = speed
				}
			}
		}
		speedsY[np] = maxSpeed
	})

	maxWaveSpeed := math.Max(floats.Max(speedsX), floats.Max(speedsY))
	if maxWaveSpeed <= 0 {
		return ErrDryDomain
	}

	b.MaxTimestep = b.CFLNumber * math.Min(b.Dx, b.Dy) / maxWaveSpeed
	return nil
}

/*
	UpdateUnknowns applies one explicit Euler step with the agreed global
	timestep. dt must equal the value installed by the reduction (within
	floating tolerance); a mismatch means blocks are about to diverge in
	simulation time, which is a broken protocol invariant, not a
	recoverable condition.
*/
func (b *Block) UpdateUnknowns(dt float64) {
	if math.Abs(dt-b.MaxTimestep) > dtConsistencyTol {
		panic(fmt.Errorf("block (%d,%d): applied dt %g does not match agreed timestep %g",
			b.PosX, b.PosY, dt, b.MaxTimestep))
	}
	var (
		ny         = b.Ny
		dtDx, dtDy = dt / b.Dx, dt / b.Dy
	)
	parallelFor(b.partCells, func(np, lo, hi int) {
		for x := lo + 1; x <= hi; x++ {
			var (
				h  = b.H.Row(x)
				hu = b.Hu.Row(x)
				hv = b.Hv.Row(x)

				updHL, updHR   = b.hNetUpdatesLeft.Row(x), b.hNetUpdatesRight.Row(x)
				updHuL, updHuR = b.huNetUpdatesLeft.Row(x), b.huNetUpdatesRight.Row(x)
				updHB, updHA   = b.hNetUpdatesBelow.Row(x), b.hNetUpdatesAbove.Row(x)
				updHvB, updHvA = b.hvNetUpdatesBelow.Row(x), b.hvNetUpdatesAbove.Row(x)
			)
			for y := 1; y <= ny; y++ {
				h[y] -= dtDx*(updHR[y]+updHL[y]) + dtDy*(updHA[y]+updHB[y])
				hu[y] -= dtDx * (updHuR[y] + updHuL[y])
				hv[y] -= dtDy * (updHvA[y] + updHvB[y])
			}
		}
	})
}
