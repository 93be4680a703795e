package swe

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hydrosolve/swe2d/config"
	"github.com/hydrosolve/swe2d/grid"
	"github.com/hydrosolve/swe2d/scenario"
	"github.com/hydrosolve/swe2d/solver"
	"github.com/hydrosolve/swe2d/writer"
)

/*
	Simulation is the enclosing controller: it partitions the domain into
	the configured block grid, wires the CONNECT channels between
	neighbours, initializes every block from the scenario and runs one
	goroutine per block until all have written their final checkpoint.

	Blocks are indexed column-major: index = posX*BlockCountY + posY, so
	the left/right neighbours sit +-BlockCountY away and the bottom/top
	neighbours +-1.
*/
type Simulation struct {
	Config *config.RunConfig
	Blocks []*Block
	Coord  *TimestepCoordinator

	// WriterFactory builds the per-block output writer; overridable so
	// tests can capture writes in memory.
	WriterFactory func(b *Block) writer.Writer
}

func NewSimulation(cfg *config.RunConfig) (sim *Simulation, err error) {
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	var (
		bcX, bcY = cfg.BlockCountX, cfg.BlockCountY
		nx       = cfg.DomainNx / bcX
		ny       = cfg.DomainNy / bcY
		dx       = cfg.DomainWidth / float64(cfg.DomainNx)
		dy       = cfg.DomainHeight / float64(cfg.DomainNy)
		outer    = grid.NewBoundaryType(cfg.OuterBoundary)
		scen     = scenario.New(scenario.NewScenarioType(cfg.Scenario), cfg.DomainWidth, cfg.DomainHeight)
		parallel = cfg.ParallelDegree
	)
	if parallel == 0 {
		parallel = runtime.NumCPU()
	}

	sim = &Simulation{
		Config: cfg,
		Blocks: make([]*Block, bcX*bcY),
		Coord:  NewTimestepCoordinator(bcX * bcY),
	}
	sim.WriterFactory = func(b *Block) writer.Writer {
		prefix := fmt.Sprintf("%s_%d_%d", cfg.OutputPrefix, b.PosX, b.PosY)
		return writer.NewCSVWriter(prefix, b.Dx, b.Dy, b.OriginX, b.OriginY)
	}

	for posX := 0; posX < bcX; posX++ {
		for posY := 0; posY < bcY; posY++ {
			idx := posX*bcY + posY
			originX := float64(posX*nx) * dx
			originY := float64(posY*ny) * dy
			sim.Blocks[idx] = NewBlock(nx, ny, dx, dy, originX, originY, posX, posY,
				solver.New(solver.NewSolverType(cfg.SolverType)), parallel)
			sim.Blocks[idx].CFLNumber = cfg.CFL
		}
	}

	// Wire CONNECT channels, then initialize: interior block edges are
	// CONNECT, the domain rim takes the configured outer type.
	for posX := 0; posX < bcX; posX++ {
		for posY := 0; posY < bcY; posY++ {
			var (
				idx        = posX*bcY + posY
				b          = sim.Blocks[idx]
				boundaries = [grid.NumSides]grid.BoundaryType{outer, outer, outer, outer}
			)
			if posX > 0 {
				boundaries[grid.SideLeft] = grid.CONNECT
				b.ConnectSide(grid.SideLeft, idx-bcY, sim.Blocks[idx-bcY].Inbox())
			}
			if posX < bcX-1 {
				boundaries[grid.SideRight] = grid.CONNECT
				b.ConnectSide(grid.SideRight, idx+bcY, sim.Blocks[idx+bcY].Inbox())
			}
			if posY > 0 {
				boundaries[grid.SideBottom] = grid.CONNECT
				b.ConnectSide(grid.SideBottom, idx-1, sim.Blocks[idx-1].Inbox())
			}
			if posY < bcY-1 {
				boundaries[grid.SideTop] = grid.CONNECT
				b.ConnectSide(grid.SideTop, idx+1, sim.Blocks[idx+1].Inbox())
			}
			b.InitScenario(scen, boundaries)
		}
	}

	logrus.Infof("simulation: %dx%d cells in %dx%d blocks, %d goroutines per sweep, scenario %s, solver %s",
		cfg.DomainNx, cfg.DomainNy, bcX, bcY, parallel, cfg.Scenario, cfg.SolverType)
	return sim, nil
}

// Run executes all blocks concurrently and waits for every completion
// signal. The first block error aborts the wait with that error; there
// is no degraded or partial mode.
func (sim *Simulation) Run() error {
	g := new(errgroup.Group)
	for _, b := range sim.Blocks {
		b := b
		cs, err := NewCheckpointSchedule(sim.Config.SimulationDuration, sim.Config.CheckpointCount)
		if err != nil {
			return err
		}
		w := sim.WriterFactory(b)
		g.Go(func() error {
			return b.Run(sim.Coord, cs, w)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation aborted: %w", err)
	}
	logrus.Infof("simulation: all %d blocks completed", len(sim.Blocks))
	return nil
}
