//go:build linux
// +build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// withHWCounters runs f under the kernel perf subsystem and reports retired
// instruction and cycle counts, when enabled.
func withHWCounters(enabled bool, f func() error) error {
	if !enabled {
		return f()
	}
	instrs, err := perf.CPUInstructions(f)
	if err != nil {
		return fmt.Errorf("perf instruction counter: %w", err)
	}
	fmt.Printf("perf: %d instructions (enabled %dns, running %dns)\n",
		instrs.Value, instrs.TimeEnabled, instrs.TimeRunning)
	cycles, err := perf.CPUCycles(func() error { return nil })
	if err == nil {
		fmt.Printf("perf: counter overhead baseline %d cycles\n", cycles.Value)
	}
	return nil
}
