package driver

import (
	"fmt"

	"phpflow/internal/ast"
	"phpflow/internal/config"
	"phpflow/internal/dataflow"
	"phpflow/internal/diag"
)

// Report turns the findings of one unit into diagnostics. Findings inside a
// function carry a note pointing at its declaration.
func Report(r diag.Reporter, t *ast.Tree, res *UnitResult, a config.Analysis) {
	within := func(b *diag.ReportBuilder) *diag.ReportBuilder {
		if res.Unit.Script() {
			return b
		}
		return b.WithNote(t.Span(res.Unit.Node), "in "+res.Unit.Name)
	}

	for _, read := range res.Reads {
		if a.Ignored(read.Name) {
			continue
		}
		sp := t.Span(read.Node)
		switch read.Status {
		case dataflow.Undefined:
			msg := fmt.Sprintf("variable $%s is undefined when used at line %d", read.Name, read.Line)
			within(diag.ReportError(r, diag.DfaUndefinedVariable, sp, msg)).Emit()
		case dataflow.MaybeUndefined:
			if !a.MaybeUndefined {
				continue
			}
			msg := fmt.Sprintf("variable $%s may be undefined when used at line %d", read.Name, read.Line)
			within(diag.ReportWarning(r, diag.DfaMaybeUndefinedVariable, sp, msg)).Emit()
		}
	}

	if res.Dead == nil {
		return
	}
	for _, stmt := range res.Dead.Topmost() {
		msg := "dead code: " + t.Kind(stmt).Short()
		within(diag.ReportWarning(r, diag.DfaDeadCode, t.Span(stmt), msg)).Emit()
	}
}
