package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phpflow/internal/config"
	"phpflow/internal/diag"
	"phpflow/internal/diagfmt"
	"phpflow/internal/source"
)

// settings is the merged view of phpflow.toml and command-line flags.
type settings struct {
	cfg     config.Config
	color   bool
	quiet   bool
	timings bool
}

// loadSettings reads --config (or the discovered phpflow.toml) and applies
// the persistent flags on top.
func loadSettings(cmd *cobra.Command) (settings, error) {
	pf := cmd.Root().PersistentFlags()
	var s settings

	path, err := pf.GetString("config")
	if err != nil {
		return s, err
	}
	if path != "" {
		s.cfg, err = config.Load(path)
	} else {
		s.cfg, err = config.Discover(".")
	}
	if err != nil {
		return s, usageError(err)
	}

	maxDiags, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return s, err
	}
	if maxDiags >= 0 {
		s.cfg.Output.MaxDiagnostics = maxDiags
	}
	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return s, err
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return s, err
	}

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return s, err
	}
	switch strings.ToLower(colorFlag) {
	case "on", "always":
		s.color = true
	case "off", "never":
		s.color = false
	case "auto", "":
		s.color = isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""
	default:
		return s, usageError(fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag))
	}
	color.NoColor = !s.color
	return s, nil
}

// writeDiagnostics renders bag in the configured format.
func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, s settings) error {
	cwd, _ := os.Getwd()
	switch s.cfg.Output.Format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{BaseDir: cwd, IncludeNotes: true})
	case "short":
		return diagfmt.Short(w, bag, fs, diagfmt.ShortOpts{BaseDir: cwd, IncludeNotes: !s.quiet})
	default:
		return diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			BaseDir:   cwd,
			Width:     terminalWidth(),
			ShowNotes: !s.quiet,
		})
	}
}

func terminalWidth() int {
	return widthOf(os.Stdout, 120)
}
