package swe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"

	"github.com/hydrosolve/swe2d/config"
	"github.com/hydrosolve/swe2d/grid"
	"github.com/hydrosolve/swe2d/writer"
)

// captureWriter records checkpoint times in memory instead of touching
// the filesystem. One instance per block, so the mutex only guards
// against a misbehaving test.
type captureWriter struct {
	mu    sync.Mutex
	times []float64
}

func (cw *captureWriter) WriteTimeStep(simTime float64, h, hu, hv grid.Float2D) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.times = append(cw.times, simTime)
	return nil
}

func testConfig() *config.RunConfig {
	return &config.RunConfig{
		Title:              "test",
		CFL:                0.4,
		SolverType:         "fwave",
		Scenario:           "gaussianbump",
		DomainNx:           10,
		DomainNy:           10,
		BlockCountX:        1,
		BlockCountY:        1,
		DomainWidth:        10,
		DomainHeight:       10,
		SimulationDuration: 0.2,
		CheckpointCount:    2,
		OuterBoundary:      "wall",
		ParallelDegree:     1,
		OutputPrefix:       "test_out",
	}
}

func TestSimulationWiring(t *testing.T) {
	cfg := testConfig()
	cfg.BlockCountX = 2
	cfg.BlockCountY = 2

	sim, err := NewSimulation(cfg)
	assert.NoError(t, err)
	assert.Equal(t, 4, len(sim.Blocks))

	// Column-major indexing: idx = posX*BlockCountY + posY.
	bl := sim.Blocks[0] // (0,0)
	assert.Equal(t, grid.WALL, bl.BoundaryTypes[grid.SideLeft])
	assert.Equal(t, grid.WALL, bl.BoundaryTypes[grid.SideBottom])
	assert.Equal(t, grid.CONNECT, bl.BoundaryTypes[grid.SideRight])
	assert.Equal(t, grid.CONNECT, bl.BoundaryTypes[grid.SideTop])
	assert.Equal(t, 2, bl.NeighbourIdx[grid.SideRight])
	assert.Equal(t, 1, bl.NeighbourIdx[grid.SideTop])

	br := sim.Blocks[3] // (1,1)
	assert.Equal(t, grid.WALL, br.BoundaryTypes[grid.SideRight])
	assert.Equal(t, grid.WALL, br.BoundaryTypes[grid.SideTop])
	assert.Equal(t, 1, br.NeighbourIdx[grid.SideLeft])
	assert.Equal(t, 2, br.NeighbourIdx[grid.SideBottom])

	// Block origins tile the domain.
	assert.Equal(t, 5., sim.Blocks[2].OriginX)
	assert.Equal(t, 0., sim.Blocks[2].OriginY)
	assert.Equal(t, 5., sim.Blocks[1].OriginY)
}

func TestSimulationRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BlockCountX = 3 // 10 cells do not divide into 3 blocks
	_, err := NewSimulation(cfg)
	assert.Error(t, err)
}

func TestSimulationCheckpointCadence(t *testing.T) {
	cfg := testConfig()
	cfg.BlockCountX = 2

	sim, err := NewSimulation(cfg)
	assert.NoError(t, err)

	writers := make(map[*Block]*captureWriter)
	sim.WriterFactory = func(b *Block) writer.Writer {
		cw := &captureWriter{}
		writers[b] = cw
		return cw
	}
	assert.NoError(t, sim.Run())

	instants, _ := NewCheckpointSchedule(cfg.SimulationDuration, cfg.CheckpointCount)
	for b, cw := range writers {
		// One write at t=0 plus one per checkpoint instant, no extras.
		assert.Equal(t, cfg.CheckpointCount+1, len(cw.times))
		assert.Equal(t, 0., cw.times[0])
		for i, instant := range instants.Instants() {
			assert.True(t, cw.times[i+1] >= instant,
				"block (%d,%d): write %d at t=%g before instant %g",
				b.PosX, b.PosY, i+1, cw.times[i+1], instant)
		}
		assert.True(t, cw.times[len(cw.times)-1] >= cfg.SimulationDuration)
	}
}

// Splitting the domain into blocks must not change the solution: the
// copy-layer exchange reproduces exactly the interface fluxes a single
// block would compute.
func TestSimulationDecompositionEquivalence(t *testing.T) {
	const iterations = 5

	single, err := NewSimulation(testConfig())
	assert.NoError(t, err)

	cfgSplit := testConfig()
	cfgSplit.BlockCountX = 2
	split, err := NewSimulation(cfgSplit)
	assert.NoError(t, err)

	ref := single.Blocks[0]
	for i := 0; i < iterations; i++ {
		assert.NoError(t, ref.Iterate(single.Coord))
	}

	g := new(errgroup.Group)
	for _, b := range split.Blocks {
		b := b
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				if err := b.Iterate(split.Coord); err != nil {
					return err
				}
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	for _, b := range split.Blocks {
		assert.InDelta(t, ref.SimTime, b.SimTime, 1e-12)
		offset := b.PosX * b.Nx
		for x := 1; x <= b.Nx; x++ {
			for y := 1; y <= b.Ny; y++ {
				assert.InDelta(t, ref.H.At(x+offset, y), b.H.At(x, y), 1e-12)
				assert.InDelta(t, ref.Hu.At(x+offset, y), b.Hu.At(x, y), 1e-12)
				assert.InDelta(t, ref.Hv.At(x+offset, y), b.Hv.At(x, y), 1e-12)
			}
		}
	}
}
