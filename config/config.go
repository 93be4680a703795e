package config

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/hydrosolve/swe2d/grid"
	"github.com/hydrosolve/swe2d/scenario"
	"github.com/hydrosolve/swe2d/solver"
)

// Parameters obtained from the YAML run deck
type RunConfig struct {
	Title              string  `yaml:"Title"`
	CFL                float64 `yaml:"CFL"`
	SolverType         string  `yaml:"SolverType"`
	Scenario           string  `yaml:"Scenario"`
	DomainNx           int     `yaml:"DomainNx"`
	DomainNy           int     `yaml:"DomainNy"`
	BlockCountX        int     `yaml:"BlockCountX"`
	BlockCountY        int     `yaml:"BlockCountY"`
	DomainWidth        float64 `yaml:"DomainWidth"`
	DomainHeight       float64 `yaml:"DomainHeight"`
	SimulationDuration float64 `yaml:"SimulationDuration"`
	CheckpointCount    int     `yaml:"CheckpointCount"`
	OuterBoundary      string  `yaml:"OuterBoundary"` // wall or outflow
	OutputPrefix       string  `yaml:"OutputPrefix"`
	ParallelDegree     int     `yaml:"ParallelDegree"` // goroutines per block sweep, 0 = NumCPU
}

func (rc *RunConfig) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, rc); err != nil {
		return err
	}
	rc.applyDefaults()
	return nil
}

func (rc *RunConfig) applyDefaults() {
	if rc.CFL == 0 {
		rc.CFL = 0.4
	}
	if rc.SolverType == "" {
		rc.SolverType = "fwave"
	}
	if rc.Scenario == "" {
		rc.Scenario = "radialdambreak"
	}
	if rc.BlockCountX == 0 {
		rc.BlockCountX = 1
	}
	if rc.BlockCountY == 0 {
		rc.BlockCountY = 1
	}
	if rc.OuterBoundary == "" {
		rc.OuterBoundary = "wall"
	}
	if rc.OutputPrefix == "" {
		rc.OutputPrefix = "swe2d_out"
	}
}

// Validate reports malformed configuration before the run starts; no
// block is constructed if it fails.
func (rc *RunConfig) Validate() error {
	if rc.DomainNx < 1 || rc.DomainNy < 1 {
		return fmt.Errorf("domain cell counts must be positive, have %dx%d", rc.DomainNx, rc.DomainNy)
	}
	if rc.DomainWidth <= 0 || rc.DomainHeight <= 0 {
		return fmt.Errorf("domain extent must be positive, have %gx%g", rc.DomainWidth, rc.DomainHeight)
	}
	if rc.BlockCountX < 1 || rc.BlockCountY < 1 {
		return fmt.Errorf("block counts must be positive, have %dx%d", rc.BlockCountX, rc.BlockCountY)
	}
	if rc.DomainNx%rc.BlockCountX != 0 || rc.DomainNy%rc.BlockCountY != 0 {
		return fmt.Errorf("domain %dx%d does not divide evenly into %dx%d blocks",
			rc.DomainNx, rc.DomainNy, rc.BlockCountX, rc.BlockCountY)
	}
	if rc.SimulationDuration <= 0 {
		return fmt.Errorf("simulation duration must be positive, have %g", rc.SimulationDuration)
	}
	if rc.CheckpointCount < 1 {
		return fmt.Errorf("checkpoint count must be at least 1, have %d", rc.CheckpointCount)
	}
	if rc.CFL <= 0 || rc.CFL > 1 {
		return fmt.Errorf("CFL number must be in (0,1], have %g", rc.CFL)
	}
	if _, ok := solver.SolverNames[rc.SolverType]; !ok {
		return fmt.Errorf("unknown solver type %q", rc.SolverType)
	}
	if _, ok := scenario.ScenarioNames[rc.Scenario]; !ok {
		return fmt.Errorf("unknown scenario %q", rc.Scenario)
	}
	switch bt, ok := grid.BoundaryNames[rc.OuterBoundary]; {
	case !ok:
		return fmt.Errorf("unknown outer boundary type %q", rc.OuterBoundary)
	case bt != grid.WALL && bt != grid.OUTFLOW:
		return fmt.Errorf("outer boundary must be wall or outflow, have %q", rc.OuterBoundary)
	}
	if rc.ParallelDegree < 0 {
		return fmt.Errorf("parallel degree must be non-negative, have %d", rc.ParallelDegree)
	}
	return nil
}

func (rc *RunConfig) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rc.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", rc.CFL)
	fmt.Printf("%8.5f\t\t= SimulationDuration\n", rc.SimulationDuration)
	fmt.Printf("[%s]\t\t\t= Solver Type\n", rc.SolverType)
	fmt.Printf("[%s]\t= Scenario\n", rc.Scenario)
	fmt.Printf("[%d x %d]\t\t= Domain Cells\n", rc.DomainNx, rc.DomainNy)
	fmt.Printf("[%d x %d]\t\t\t= Block Grid\n", rc.BlockCountX, rc.BlockCountY)
	fmt.Printf("[%d]\t\t\t\t= Checkpoint Count\n", rc.CheckpointCount)
	fmt.Printf("[%s]\t\t\t= Outer Boundary\n", rc.OuterBoundary)
}
