package driver

import (
	"context"
	"fmt"
	"time"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
	"phpflow/internal/dataflow"
	"phpflow/internal/deadcode"
	"phpflow/internal/dom"
	"phpflow/internal/observ"
	"phpflow/internal/ssa"
	"phpflow/internal/trace"
)

// Passes selects what AnalyzeUnit runs after building the graph.
type Passes struct {
	Undefined bool
	// SSA converts the graph; DeadCode implies it.
	SSA      bool
	DeadCode bool
}

// UnitResult holds everything computed for one unit. The graph is in SSA
// form when SSA is non-nil.
type UnitResult struct {
	Unit  Unit
	CFG   *cfg.CFG
	Reads []dataflow.Read
	Dom   *dom.Info
	SSA   *ssa.Result
	Dead  *deadcode.Result
}

// pass runs fn inside a pass span and records its duration.
func pass(ctx context.Context, timer *observ.Timer, name string, fn func() error) error {
	span, _ := trace.Start(ctx, trace.ScopePass, name)
	start := time.Now()
	err := fn()
	timer.Add(name, time.Since(start))
	if err != nil {
		span.End(err.Error())
		return err
	}
	span.End("")
	return nil
}

// step is pass for work that cannot fail.
func step(ctx context.Context, timer *observ.Timer, name string, fn func()) {
	span, _ := trace.Start(ctx, trace.ScopePass, name)
	start := time.Now()
	fn()
	timer.Add(name, time.Since(start))
	span.End("")
}

// AnalyzeUnit builds u and runs the selected passes. The undefined-variable
// classification runs before SSA conversion rewrites the graph.
func AnalyzeUnit(ctx context.Context, t *ast.Tree, u Unit, p Passes, timer *observ.Timer) (*UnitResult, error) {
	span, ctx := trace.Start(ctx, trace.ScopeFunc, u.Name)
	defer span.End("")

	res := &UnitResult{Unit: u}
	err := pass(ctx, timer, "cfg.build", func() error {
		g, err := Build(t, u)
		if err != nil {
			return err
		}
		if err := cfg.Validate(g); err != nil {
			return fmt.Errorf("driver: invalid graph: %w", err)
		}
		res.CFG = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.WithExtra("blocks", fmt.Sprint(res.CFG.Len()))

	if p.Undefined {
		step(ctx, timer, "undefined", func() {
			res.Reads = dataflow.NewUndefinedVars(res.CFG).Reads()
		})
	}
	if !p.SSA && !p.DeadCode {
		return res, nil
	}

	step(ctx, timer, "dom", func() {
		res.Dom = dom.Compute(res.CFG)
	})
	step(ctx, timer, "ssa", func() {
		res.SSA = ssa.Convert(res.CFG, res.Dom)
	})
	span.WithExtra("phis", fmt.Sprint(res.SSA.PhiCount()))
	if p.DeadCode {
		step(ctx, timer, "deadcode", func() {
			res.Dead = deadcode.Analyze(res.CFG, res.SSA)
		})
	}
	return res, nil
}
