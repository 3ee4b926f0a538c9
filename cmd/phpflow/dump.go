package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"phpflow/internal/ast"
	"phpflow/internal/cfgfmt"
	"phpflow/internal/driver"
	"phpflow/internal/observ"
	"phpflow/internal/source"
)

var cfgCmd = &cobra.Command{
	Use:   "cfg [flags] <file>",
	Short: "Print the control-flow graph of every unit in a file",
	Args:  requireOneFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(cmd, args[0], false)
	},
}

var ssaCmd = &cobra.Command{
	Use:   "ssa [flags] <file>",
	Short: "Print every unit after SSA conversion, with dead statements marked",
	Args:  requireOneFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(cmd, args[0], true)
	},
}

var annotatorNames = []string{"line", "kind", "ssa", "dead"}

func init() {
	cfgCmd.Flags().String("unit", "", "only print units with this name ({main} for the top level)")
	cfgCmd.Flags().StringSlice("annotate", []string{"line"}, "annotators (line,kind)")
	ssaCmd.Flags().String("unit", "", "only print units with this name ({main} for the top level)")
	ssaCmd.Flags().StringSlice("annotate", []string{"ssa", "dead"}, "annotators (line,kind,ssa,dead)")
}

func requireOneFile(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usageError(fmt.Errorf("%s: expected exactly one file, got %d", cmd.Name(), len(args)))
	}
	return nil
}

func runDump(cmd *cobra.Command, path string, toSSA bool) error {
	defer dumpTraceOnPanic()

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	unit, _ := cmd.Flags().GetString("unit")
	names, _ := cmd.Flags().GetStringSlice("annotate")
	for _, n := range names {
		if !slices.Contains(annotatorNames, n) || (!toSSA && (n == "ssa" || n == "dead")) {
			return usageError(fmt.Errorf("unknown annotator %q", n))
		}
	}

	ctx := cmd.Context()
	fs := source.NewFileSet()
	t, err := driver.Parse(ctx, fs, path, s.cfg.Frontend)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if s.timings {
		timer = observ.NewTimer()
	}
	passes := driver.Passes{SSA: toSSA, DeadCode: toSSA}
	out := cmd.OutOrStdout()
	printed := 0
	for _, u := range driver.Units(t) {
		if unit != "" && u.Name != unit {
			continue
		}
		res, err := driver.AnalyzeUnit(ctx, t, u, passes, timer)
		if err != nil {
			return fmt.Errorf("%s: %w", u.Name, err)
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		opts := cfgfmt.Options{Name: u.Name, Annotators: annotators(t, res, names)}
		if err := cfgfmt.Dump(out, res.CFG, opts); err != nil {
			return err
		}
		printed++
	}
	if unit != "" && printed == 0 {
		return usageError(fmt.Errorf("no unit named %q (have: %s)", unit, unitNames(t)))
	}
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

func annotators(t *ast.Tree, res *driver.UnitResult, names []string) []cfgfmt.Annotator {
	var out []cfgfmt.Annotator
	for _, n := range names {
		switch n {
		case "line":
			out = append(out, &cfgfmt.LineAnnotator{Tree: t})
		case "kind":
			out = append(out, cfgfmt.KindAnnotator{Tree: t})
		case "ssa":
			out = append(out, cfgfmt.SSAAnnotator{SSA: res.SSA})
		case "dead":
			out = append(out, cfgfmt.DeadAnnotator{Dead: res.Dead})
		}
	}
	return out
}

func unitNames(t *ast.Tree) string {
	var names []string
	for _, u := range driver.Units(t) {
		names = append(names, u.Name)
	}
	return strings.Join(names, ", ")
}
