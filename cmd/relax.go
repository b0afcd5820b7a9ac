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
	"context"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gomag/InputParameters"
	"github.com/notargets/gomag/energy"
	"github.com/notargets/gomag/field"
	"github.com/notargets/gomag/geometry"
	"github.com/notargets/gomag/model_problems/StdProb3"
	"github.com/notargets/gomag/relax"
	"github.com/notargets/gomag/search"
	"github.com/notargets/gomag/utils"
)

// RelaxCmd represents the relax command
var RelaxCmd = &cobra.Command{
	Use:   "relax",
	Short: "Relax one initial state at a fixed cube edge length",
	Long: `
Builds a cube of the requested edge length, initializes the magnetization to
the requested state and relaxes it to a local energy minimum, reporting the
energy breakdown per term.

gomag relax`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			mr = &ModelRelax{}
			err error
		)
		if mr.ParamFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		mr.State, _ = cmd.Flags().GetString("state")
		mr.Edge, _ = cmd.Flags().GetFloat64("edge")
		mr.Timeout, _ = cmd.Flags().GetDuration("timeout")
		mr.ProfileMode, _ = cmd.Flags().GetString("profile")
		mr.HWCounters, _ = cmd.Flags().GetBool("perf")
		RunRelax(mr)
	},
}

func init() {
	rootCmd.AddCommand(RelaxCmd)
	RelaxCmd.Flags().StringP("inputParametersFile", "I", "", "YAML parameter deck, defaults cover the standard cube problem")
	RelaxCmd.Flags().StringP("state", "s", "flower", "initial state: flower, vortex or uniform")
	RelaxCmd.Flags().Float64P("edge", "e", 8.5, "cube edge length in exchange length units")
	RelaxCmd.Flags().Duration("timeout", 0, "wall clock budget, 0 means unbounded")
	RelaxCmd.Flags().String("profile", "", "write a pprof profile: cpu or mem")
	RelaxCmd.Flags().Bool("perf", false, "report hardware instruction counts (linux only)")
}

type ModelRelax struct {
	ParamFile   string
	State       string
	Edge        float64
	Timeout     time.Duration
	ProfileMode string
	HWCounters  bool
}

func RunRelax(mr *ModelRelax) {
	var (
		ip = InputParameters.Defaults()
	)
	if mr.ParamFile != "" {
		data, err := ioutil.ReadFile(mr.ParamFile)
		if err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	ip.Print()
	switch mr.ProfileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}
	ctx := context.Background()
	if mr.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mr.Timeout)
		defer cancel()
	}
	g, err := geometry.NewCube(mr.Edge, ip.Cells)
	if err != nil {
		panic(err)
	}
	p := paramsFromDeck(ip)
	terms, err := p.Terms(g)
	if err != nil {
		panic(err)
	}
	var init field.Initializer
	switch mr.State {
	case "vortex":
		init = StdProb3.Vortex(g)
	case "uniform":
		init = func(x, y, z float64) utils.Vec3 { return utils.Vec3{0, 0, 1} }
	case "flower":
		fallthrough
	default:
		init = StdProb3.Flower(g)
	}
	f, err := field.NewVectorField(g, init, ip.Ms)
	if err != nil {
		panic(err)
	}
	h := energy.NewHamiltonian(g, terms...)
	mn, err := relax.NewMinimizer(h, ip.Tolerance, ip.MaxIterations)
	if err != nil {
		panic(err)
	}
	mn.LogFrequency = ip.LogFrequency
	var (
		E      float64
		status relax.Status
	)
	start := time.Now()
	if err = withHWCounters(mr.HWCounters, func() error {
		E, status = mn.Relax(ctx, f)
		return nil
	}); err != nil {
		panic(err)
	}
	fmt.Printf("state %s, L = %8.4f: E = %12.8f (Km l_ex^3), status %s, %d iterations, %v\n",
		mr.State, mr.Edge, E, status, mn.Iterations(), time.Since(start))
	for i, Et := range h.TermEnergies(f) {
		fmt.Printf("  %-12s = %12.8f\n", h.Terms()[i].Name(), Et)
	}
	avg := f.AverageDirection()
	fmt.Printf("  average direction = [%8.5f, %8.5f, %8.5f]\n", avg[0], avg[1], avg[2])
}

func paramsFromDeck(ip *InputParameters.Parameters) search.Params {
	return search.Params{
		ExchangeA:     ip.ExchangeA,
		AnisotropyK:   ip.AnisotropyK,
		EasyAxis:      utils.Vec3(ip.EasyAxis),
		Ms:            ip.Ms,
		AppliedField:  utils.Vec3(ip.AppliedField),
		UseDemag:      ip.UseDemag,
		CellsPerEdge:  ip.Cells,
		Tol:           ip.Tolerance,
		MaxIterations: ip.MaxIterations,
	}
}
