package main

import (
	"github.com/spf13/cobra"

	"hdrgen/internal/prof"
)

// startProfiling reads the persistent profiling flags and starts the
// requested profilers.
func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	cpu, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, err
	}
	mem, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, err
	}
	tracePath, err := flags.GetString("runtime-trace")
	if err != nil {
		return nil, err
	}
	return prof.Start(cpu, mem, tracePath)
}
