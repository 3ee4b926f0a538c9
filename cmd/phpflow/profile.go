package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phpflow/internal/prof"
)

var profileCleanup func()

func runProfileCleanup() {
	if profileCleanup != nil {
		profileCleanup()
		profileCleanup = nil
	}
}

// setupProfiling starts the profilers named by the persistent flags.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var o prof.Options
	var err error
	if o.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if o.Mem, err = pf.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if o.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !o.Enabled() {
		return func() {}, nil
	}
	s, err := prof.Start(o)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := s.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "phpflow: %v\n", err)
		}
	}, nil
}
