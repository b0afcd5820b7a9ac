//go:build !linux
// +build !linux

package cmd

import "fmt"

func withHWCounters(enabled bool, f func() error) error {
	if enabled {
		fmt.Println("hardware counters are only available on linux, running without them")
	}
	return f()
}
