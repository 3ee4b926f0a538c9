package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phpflow/internal/config"
	"phpflow/internal/driver"
	"phpflow/internal/observ"
	"phpflow/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path>...",
	Short: "Report undefined variables and dead code",
	Long: `Run every enabled analysis over files or directories. Directories are
searched recursively for *.json dumps, and for *.php files when a frontend
command is configured. Exits with status 1 when an error is reported.`,
	Args: requireArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, args, nil)
	},
}

var undefCmd = &cobra.Command{
	Use:   "undef [flags] <path>...",
	Short: "Report variables read before assignment",
	Args:  requireArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, args, func(a *config.Analysis) { a.DeadCode = false; a.Undefined = true })
	},
}

var deadcodeCmd = &cobra.Command{
	Use:   "deadcode [flags] <path>...",
	Short: "Report statements whose values are never observed",
	Args:  requireArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, args, func(a *config.Analysis) { a.Undefined = false; a.DeadCode = true })
	},
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, undefCmd, deadcodeCmd} {
		c.Flags().String("format", "", "output format (pretty|short|json, default from config)")
		c.Flags().Int("jobs", -1, "parallel workers (0 = GOMAXPROCS, default from config)")
		c.Flags().Bool("no-cache", false, "do not read or write the result cache")
		c.Flags().Bool("clear-cache", false, "drop every cached result before running")
		c.Flags().String("ui", "auto", "progress view on stderr (auto|on|off)")
		c.Flags().Bool("no-maybe", false, "do not report possibly undefined variables")
	}
}

func requireArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(fmt.Errorf("%s: at least one path is required", cmd.Name()))
	}
	return nil
}

// runAnalysis implements check, undef and deadcode; narrow restricts the
// configured analyses.
func runAnalysis(cmd *cobra.Command, args []string, narrow func(*config.Analysis)) error {
	defer dumpTraceOnPanic()

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyCheckFlags(cmd, &s.cfg); err != nil {
		return err
	}
	if narrow != nil {
		narrow(&s.cfg.Analysis)
	}

	paths, err := driver.Collect(args, len(s.cfg.Frontend.Command) > 0)
	if err != nil {
		return usageError(err)
	}

	opts := driver.Options{Config: s.cfg}
	if s.timings {
		opts.Timer = observ.NewTimer()
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if s.cfg.Run.Cache && !noCache {
		cache, err := driver.OpenDiskCache("phpflow")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "phpflow: cache disabled: %v\n", err)
		} else {
			if drop, _ := cmd.Flags().GetBool("clear-cache"); drop {
				if err := cache.DropAll(); err != nil {
					return err
				}
			}
			opts.Cache = cache
		}
	}

	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return usageError(err)
	}

	res, err := checkWithProgress(cmd.Context(), paths, opts, shouldUseTUI(mode, s.quiet) && len(paths) > 1)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeDiagnostics(out, res.Bag, res.Files, s); err != nil {
		return err
	}
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if !s.quiet && s.cfg.Output.Format == "pretty" {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s), %d cached, %d diagnostic(s)\n",
			len(paths), res.Cached, res.Bag.Len())
	}
	if res.Bag.HasErrors() {
		return errFindings
	}
	return nil
}

func applyCheckFlags(cmd *cobra.Command, cfg *config.Config) error {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		folded, err := config.FoldFormat(format)
		if err != nil {
			return usageError(err)
		}
		cfg.Output.Format = folded
	}
	if jobs, _ := cmd.Flags().GetInt("jobs"); jobs >= 0 {
		cfg.Run.Jobs = jobs
	}
	if noMaybe, _ := cmd.Flags().GetBool("no-maybe"); noMaybe {
		cfg.Analysis.MaybeUndefined = false
	}
	return nil
}

// checkWithProgress runs the driver, drawing the progress view when tui is
// set. The view quits once the driver has finished and the channel closes.
func checkWithProgress(ctx context.Context, paths []string, opts driver.Options, tui bool) (*driver.Result, error) {
	if !tui {
		return driver.Check(ctx, paths, opts)
	}
	events := make(chan driver.Event, 64)
	opts.Progress = driver.ChannelSink{Ch: events}

	var (
		res *driver.Result
		err error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		res, err = driver.Check(ctx, paths, opts)
	}()
	uiErr := ui.Run(ctx, os.Stderr, "phpflow check", paths, events)
	// drain in case the view stopped early
	for range events {
	}
	<-done
	if err != nil {
		return nil, err
	}
	if uiErr != nil {
		fmt.Fprintf(os.Stderr, "phpflow: progress view: %v\n", uiErr)
	}
	return res, nil
}
