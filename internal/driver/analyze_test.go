package driver

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"phpflow/internal/ast"
	"phpflow/internal/observ"
)

func TestAnalyzeUnitTimesEveryPass(t *testing.T) {
	tr := ast.NewTree(0, 0)
	tr.Root = []ast.NodeID{
		tr.ExprStmt(1, tr.Assign(1, tr.Var(1, "x"), tr.Int(1, 1))),
		tr.Echo(2, tr.Var(2, "y")),
	}
	timer := observ.NewTimer()
	res, err := AnalyzeUnit(context.Background(), tr, Unit{Name: ScriptUnit}, Passes{Undefined: true, DeadCode: true}, timer)
	if err != nil {
		t.Fatalf("AnalyzeUnit: %v", err)
	}
	if res.SSA == nil || res.Dead == nil {
		t.Fatalf("passes skipped: ssa=%v dead=%v", res.SSA != nil, res.Dead != nil)
	}
	if len(res.Reads) != 1 {
		t.Errorf("reads = %v, want the read of $y", res.Reads)
	}

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	want := []string{"cfg.build", "undefined", "dom", "ssa", "deadcode"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("timed passes mismatch (-want +got):\n%s", diff)
	}
}
