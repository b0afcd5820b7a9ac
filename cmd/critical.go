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
	"github.com/notargets/gomag/model_problems/StdProb3"
)

// CriticalCmd represents the critical command
var CriticalCmd = &cobra.Command{
	Use:   "critical",
	Short: "Search for the flower/vortex energy crossing edge length",
	Long: `
Scans the configured edge length interval for a sign change of the
flower/vortex energy difference, then bisects to the crossing. This is the
standard cube problem; its published crossing is near 8.47 exchange lengths.

gomag critical`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			mc  = &ModelCritical{}
			err error
		)
		if mc.ParamFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		mc.Graph, _ = cmd.Flags().GetBool("graph")
		delay, _ := cmd.Flags().GetInt("delay")
		mc.Delay = time.Duration(delay) * time.Millisecond
		mc.Timeout, _ = cmd.Flags().GetDuration("timeout")
		mc.ProfileMode, _ = cmd.Flags().GetString("profile")
		RunCritical(mc)
	},
}

func init() {
	rootCmd.AddCommand(CriticalCmd)
	CriticalCmd.Flags().StringP("inputParametersFile", "I", "", "YAML parameter deck, defaults cover the standard cube problem")
	CriticalCmd.Flags().BoolP("graph", "g", false, "display the energy difference scan while computing")
	CriticalCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	CriticalCmd.Flags().Duration("timeout", 0, "wall clock budget, 0 means unbounded")
	CriticalCmd.Flags().String("profile", "", "write a pprof profile: cpu or mem")
}

type ModelCritical struct {
	ParamFile   string
	Graph       bool
	Delay       time.Duration
	Timeout     time.Duration
	ProfileMode string
}

func RunCritical(mc *ModelCritical) {
	var (
		ip = InputParameters.Defaults()
	)
	if mc.ParamFile != "" {
		data, err := ioutil.ReadFile(mc.ParamFile)
		if err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	ip.Print()
	switch mc.ProfileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}
	ctx := context.Background()
	if mc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mc.Timeout)
		defer cancel()
	}
	sp := StdProb3.NewStdProb3(ip.Cells, ip.EdgeLo, ip.EdgeHi,
		ip.Tolerance, ip.SearchTolerance, ip.MaxIterations)
	sp.ScanPoints = ip.ScanPoints
	start := time.Now()
	Lc, err := sp.Run(ctx, mc.Graph, mc.Delay)
	if err != nil {
		panic(err)
	}
	fmt.Printf("done in %v: critical edge length = %8.4f l_ex\n", time.Since(start), Lc)
}
