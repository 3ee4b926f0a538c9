package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"phpflow/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "phpflow",
	Short: "Control-flow and dataflow analysis for PHP syntax trees",
	Long: `phpflow builds a control-flow graph for every function of a PHP file,
converts it to SSA form and reports undefined variables and dead code.
Input is a nikic/php-parser JSON dump, or PHP source when a frontend
command is configured.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit status out of RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// usageError marks bad flags, arguments or configuration.
func usageError(err error) error { return &exitError{code: 2, err: err} }

// errFindings is returned when an error-level diagnostic was reported.
var errFindings = &exitError{code: 1}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(cfgCmd)
	rootCmd.AddCommand(ssaCmd)
	rootCmd.AddCommand(undefCmd)
	rootCmd.AddCommand(deadcodeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show per-pass timing information")
	pf.Int("max-diagnostics", -1, "maximum number of diagnostics to keep (0 = unlimited, default from config)")
	pf.String("config", "", "path to phpflow.toml (default: search upwards from the working directory)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return usageError(err)
		}
		traceCleanup = cleanup
		if profileCleanup, err = setupProfiling(cmd); err != nil {
			return usageError(err)
		}
		return nil
	}
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		runProfileCleanup()
		runTraceCleanup()
	}
}

func main() {
	err := rootCmd.Execute()
	runProfileCleanup()
	runTraceCleanup()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(os.Stderr, "phpflow:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(os.Stderr, "phpflow:", err)
	// cobra reports unknown commands and flags unwrapped
	return 2
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
