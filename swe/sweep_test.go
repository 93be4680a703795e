package swe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydrosolve/swe2d/scenario"
	"github.com/hydrosolve/swe2d/solver"
)

func newBumpBlock(nx, ny, parallelDegree int) *Block {
	b := NewBlock(nx, ny, 1, 1, 0, 0, 0, 0, solver.NewFWave(), parallelDegree)
	sc := &scenario.GaussianBump{
		CenterX: float64(nx) / 2, CenterY: float64(ny) / 2,
		Sigma: float64(nx) / 10, HBase: 10, Amplitude: 2,
	}
	b.InitScenario(sc, allWall())
	return b
}

func TestConservationClosedDomain(t *testing.T) {
	// Closed WALL domain, no source terms: total water volume changes
	// only by floating point rounding, for any number of iterations.
	b := newBumpBlock(10, 10, 1)
	coord := NewTimestepCoordinator(1)

	initialMass := b.H.InteriorSum()
	for i := 0; i < 25; i++ {
		assert.NoError(t, b.Iterate(coord))
	}
	assert.True(t, b.SimTime > 0)
	assert.True(t, near(b.H.InteriorSum(), initialMass, 1.e-10),
		"mass drifted from %g to %g", initialMass, b.H.InteriorSum())
}

func TestConservationParallelSweeps(t *testing.T) {
	// Interface partitioning across goroutines must not change the
	// conservation property.
	b := newBumpBlock(12, 9, 4)
	coord := NewTimestepCoordinator(1)

	initialMass := b.H.InteriorSum()
	for i := 0; i < 10; i++ {
		assert.NoError(t, b.Iterate(coord))
	}
	assert.True(t, near(b.H.InteriorSum(), initialMass, 1.e-10))
}

func TestCFLSafety(t *testing.T) {
	b := newBumpBlock(10, 10, 1)
	assert.NoError(t, b.ComputeNumericalFluxes())
	dt := b.MaxTimestep
	assert.True(t, dt > 0)

	// The fastest wave is at least sqrt(g*hMax) for a domain at rest,
	// so the CFL bound gives an upper limit on dt.
	hMax := 12.0 // HBase + Amplitude
	assert.True(t, dt*math.Sqrt(solver.Gravity*hMax) <= b.CFLNumber*math.Min(b.Dx, b.Dy)+1.e-12)

	// Halving the CFL number halves the candidate timestep.
	b.CFLNumber /= 2
	assert.NoError(t, b.ComputeNumericalFluxes())
	assert.True(t, near(b.MaxTimestep, dt/2, 1.e-12))
}

func TestUpdateUnknownsDtMismatchPanics(t *testing.T) {
	// Applying a dt other than the globally agreed one is a broken
	// protocol invariant, not a recoverable condition.
	b := newBumpBlock(4, 4, 1)
	assert.NoError(t, b.ComputeNumericalFluxes())
	assert.Panics(t, func() { b.UpdateUnknowns(b.MaxTimestep * 0.5) })
}

func TestDryDomainFailsDistinctly(t *testing.T) {
	// An all-dry block has no waves and no defined timestep. The error
	// is the dedicated numerics failure, not a communication fault.
	b := NewBlock(4, 4, 1, 1, 0, 0, 0, 0, solver.NewFWave(), 1)
	b.BoundaryTypes = allWall()
	b.ApplyBoundaryConditions()
	b.ApplyBoundaryBathymetry()

	err := b.ComputeNumericalFluxes()
	assert.ErrorIs(t, err, ErrDryDomain)
}

func TestGhostCellsNotWrittenBySweeps(t *testing.T) {
	// Interior flux/update logic must never write ghost unknowns.
	b := newBumpBlock(6, 6, 2)
	const sentinel = 77.25
	b.H.Set(0, 3, sentinel)
	b.Hu.Set(3, 7, sentinel)

	assert.NoError(t, b.ComputeNumericalFluxes())
	b.UpdateUnknowns(b.MaxTimestep)

	assert.Equal(t, sentinel, b.H.At(0, 3))
	assert.Equal(t, sentinel, b.Hu.At(3, 7))
}

func TestSweepSymmetry(t *testing.T) {
	// A centered symmetric bump on a square domain must stay symmetric
	// under the split sweeps.
	b := newBumpBlock(8, 8, 1)
	coord := NewTimestepCoordinator(1)
	for i := 0; i < 5; i++ {
		assert.NoError(t, b.Iterate(coord))
	}
	for x := 1; x <= 8; x++ {
		for y := 1; y <= 8; y++ {
			assert.True(t, near(b.H.At(x, y), b.H.At(9-x, y), 1.e-9))
			assert.True(t, near(b.H.At(x, y), b.H.At(x, 9-y), 1.e-9))
		}
	}
}

func TestPartitionMap(t *testing.T) {
	pm := NewPartitionMap(4, 11)
	covered := 0
	prevMax := 0
	for n := 0; n < pm.ParallelDegree; n++ {
		min, max := pm.GetBucketRange(n)
		assert.Equal(t, prevMax, min, "partitions must be contiguous")
		assert.True(t, max > min)
		assert.True(t, pm.GetBucketDimension(n) >= 2)
		assert.True(t, pm.GetBucketDimension(n) <= 3)
		covered += max - min
		prevMax = max
	}
	assert.Equal(t, 11, covered)

	// Degree capped by the index space.
	pm = NewPartitionMap(8, 3)
	assert.Equal(t, 1, pm.ParallelDegree)
}
