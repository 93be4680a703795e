/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hydrosolve/swe2d/config"
	"github.com/hydrosolve/swe2d/swe"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a shallow water simulation from a YAML run deck",
	Long:  `Run a shallow water simulation from a YAML run deck`,
	Run: func(cmd *cobra.Command, args []string) {
		deckFile, err := cmd.Flags().GetString("deck")
		if err != nil {
			panic(err)
		}
		doProfile, _ := cmd.Flags().GetBool("profile")
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		rc := processDeck(deckFile)
		if doProfile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		runSimulation(rc)
	},
}

func processDeck(deckFile string) (rc *config.RunConfig) {
	if len(deckFile) == 0 {
		err := fmt.Errorf("must supply a run deck (-d, --deck) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Radial Dam Break"
CFL: 0.4
SolverType: fwave
Scenario: radialdambreak
DomainNx: 200
DomainNy: 200
BlockCountX: 2
BlockCountY: 2
DomainWidth: 1000
DomainHeight: 1000
SimulationDuration: 15
CheckpointCount: 20
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	data, err := os.ReadFile(deckFile)
	if err != nil {
		panic(err)
	}
	rc = &config.RunConfig{}
	if err = rc.Parse(data); err != nil {
		panic(err)
	}
	if err = rc.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func runSimulation(rc *config.RunConfig) {
	rc.Print()
	sim, err := swe.NewSimulation(rc)
	if err != nil {
		logrus.Fatalf("simulation setup failed: %v", err)
	}
	start := time.Now()
	if err = sim.Run(); err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Infof("wall time %v", time.Since(start))
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringP("deck", "d", "", "YAML run deck with domain, scenario and checkpoint settings")
	simulateCmd.Flags().BoolP("profile", "p", false, "write a CPU profile for the run")
	simulateCmd.Flags().BoolP("verbose", "v", false, "per-iteration debug logging")
}
