package deadcode_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
	"phpflow/internal/deadcode"
	"phpflow/internal/dom"
	"phpflow/internal/ssa"
	"phpflow/internal/testkit"
)

func analyze(t *testing.T, tr *ast.Tree, stmts ...ast.NodeID) *deadcode.Result {
	t.Helper()
	g, err := cfg.BuildScript(tr, stmts)
	if err != nil {
		t.Fatalf("BuildScript: %v", err)
	}
	d := dom.Compute(g)
	r := ssa.Convert(g, d)
	if err := testkit.CheckSSA(g, d, r); err != nil {
		t.Fatalf("CheckSSA: %v", err)
	}
	return deadcode.Analyze(g, r)
}

func expectTopmost(t *testing.T, res *deadcode.Result, want ...ast.NodeID) {
	t.Helper()
	sorted := cmpopts.SortSlices(func(a, b ast.NodeID) bool { return a < b })
	if diff := cmp.Diff(want, res.Topmost(), sorted, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("topmost dead statements mismatch (-want +got):\n%s", diff)
	}
}

func TestOverwrittenAssignmentIsDead(t *testing.T) {
	tr := ast.NewTree(0, 0)
	x1 := tr.Var(1, "x")
	one := tr.Int(1, 1)
	a1 := tr.Assign(1, x1, one)
	a2 := tr.Assign(2, tr.Var(2, "x"), tr.Int(2, 2))
	res := analyze(t, tr, tr.ExprStmt(1, a1), tr.ExprStmt(2, a2), tr.Echo(3, tr.Var(3, "x")))

	for _, id := range []ast.NodeID{a1, x1, one} {
		if !res.IsDead(id) {
			t.Errorf("%s at line 1 should be dead", tr.Kind(id))
		}
	}
	if res.IsDead(a2) {
		t.Errorf("the assignment that reaches echo is dead")
	}
	expectTopmost(t, res, a1)
}

func TestAssignmentsFeedingPhiStayLive(t *testing.T) {
	tr := ast.NewTree(0, 0)
	a1 := tr.Assign(1, tr.Var(1, "x"), tr.Int(1, 1))
	a2 := tr.Assign(2, tr.Var(2, "x"), tr.Int(2, 2))
	ifs := tr.If(2, tr.Var(2, "cond"), []ast.NodeID{tr.ExprStmt(2, a2)}, nil, ast.NoNodeID)
	res := analyze(t, tr, tr.ExprStmt(1, a1), ifs, tr.Echo(3, tr.Var(3, "x")))

	if res.IsDead(a1) || res.IsDead(a2) {
		t.Errorf("both assignments reach echo through the phi")
	}
	if diff := cmp.Diff([]ast.NodeID(nil), res.Dead(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("dead statements mismatch (-want +got):\n%s", diff)
	}
}

func TestUnreadValueKillsItsInputs(t *testing.T) {
	tr := ast.NewTree(0, 0)
	a1 := tr.Assign(1, tr.Var(1, "x"), tr.Int(1, 1))
	a2 := tr.Assign(2, tr.Var(2, "x"), tr.Int(2, 2))
	cond := tr.Var(2, "cond")
	ifs := tr.If(2, cond, []ast.NodeID{tr.ExprStmt(2, a2)}, nil, ast.NoNodeID)
	a3 := tr.Assign(3, tr.Var(3, "y"), tr.Var(3, "x"))
	res := analyze(t, tr, tr.ExprStmt(1, a1), ifs, tr.ExprStmt(3, a3))

	// y is never read, so nothing observes x either; the phi is not reported
	expectTopmost(t, res, a1, a2, a3)
	if res.IsDead(cond) {
		t.Errorf("branch condition reported dead")
	}
}

func TestBranchConditionIsLive(t *testing.T) {
	tr := ast.NewTree(0, 0)
	asg := tr.Assign(1, tr.Var(1, "c"), tr.Int(1, 1))
	cmpx := tr.Binary(2, "Greater", tr.Var(2, "c"), tr.Int(2, 0))
	ifs := tr.If(2, cmpx, nil, nil, ast.NoNodeID)
	res := analyze(t, tr, tr.ExprStmt(1, asg), ifs)

	if res.IsDead(cmpx) {
		t.Errorf("condition reported dead")
	}
	if res.IsDead(asg) {
		t.Errorf("assignment read by the condition reported dead")
	}
	expectTopmost(t, res)
}

func TestLoopCounterIsLive(t *testing.T) {
	tr := ast.NewTree(0, 0)
	init := tr.Assign(1, tr.Var(1, "i"), tr.Int(1, 0))
	step := tr.Assign(3, tr.Var(3, "i"), tr.Binary(3, "Plus", tr.Var(3, "i"), tr.Int(3, 1)))
	loop := tr.While(2, tr.Binary(2, "Smaller", tr.Var(2, "i"), tr.Int(2, 3)), tr.ExprStmt(3, step))
	res := analyze(t, tr, tr.ExprStmt(1, init), loop)

	if res.IsDead(init) || res.IsDead(step) {
		t.Errorf("loop counter updates reported dead")
	}
	expectTopmost(t, res)
}

func TestForeachSubjectIsLive(t *testing.T) {
	tr := ast.NewTree(0, 0)
	xs := tr.Var(1, "xs")
	asg := tr.Assign(1, xs, tr.Call(1, "load"))
	each := tr.Foreach(2, tr.Var(2, "xs"), ast.NoNodeID, tr.Var(2, "v"))
	res := analyze(t, tr, tr.ExprStmt(1, asg), each)

	if res.IsDead(asg) {
		t.Errorf("iterated array reported dead")
	}
	expectTopmost(t, res)
}

func TestDeadAssignmentsInBoundBodies(t *testing.T) {
	tests := []struct {
		name  string
		build func(tr *ast.Tree, unused ast.NodeID) ast.NodeID
	}{
		{
			name: "foreach body",
			build: func(tr *ast.Tree, unused ast.NodeID) ast.NodeID {
				return tr.Foreach(1, tr.Var(1, "arr"), ast.NoNodeID, tr.Var(1, "v"),
					tr.ExprStmt(2, unused), tr.Echo(3, tr.Var(3, "v")))
			},
		},
		{
			name: "catch body",
			build: func(tr *ast.Tree, unused ast.NodeID) ast.NodeID {
				catch := tr.Catch(2, "E", "e", tr.ExprStmt(2, unused), tr.Echo(3, tr.Var(3, "e")))
				return tr.Try(1, []ast.NodeID{tr.ExprStmt(1, tr.Call(1, "f"))}, []ast.NodeID{catch}, ast.NoNodeID)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ast.NewTree(0, 0)
			unused := tr.Assign(2, tr.Var(2, "unused"), tr.Int(2, 1))
			res := analyze(t, tr, tt.build(tr, unused))
			if !res.IsDead(unused) {
				t.Errorf("unread assignment in %s reported live", tt.name)
			}
			expectTopmost(t, res, unused)
		})
	}
}

func TestReturnValueIsLive(t *testing.T) {
	tr := ast.NewTree(0, 0)
	asg := tr.Assign(1, tr.Var(1, "r"), tr.Int(1, 7))
	res := analyze(t, tr, tr.ExprStmt(1, asg), tr.Return(2, tr.Var(2, "r")))
	if res.IsDead(asg) {
		t.Errorf("returned value reported dead")
	}
}

func TestUnreachableStatementsAreDead(t *testing.T) {
	tr := ast.NewTree(0, 0)
	echo := tr.Echo(2, tr.Int(2, 2))
	res := analyze(t, tr, tr.Return(1, ast.NoNodeID), echo)
	if !res.IsDead(echo) {
		t.Errorf("echo after return should be dead")
	}
	expectTopmost(t, res, echo)
}

func TestSideEffectsKeepStatementsLive(t *testing.T) {
	tr := ast.NewTree(0, 0)
	call := tr.Call(1, "f", tr.Var(1, "a"))
	prop := tr.Assign(2, tr.PropertyFetch(2, tr.Var(2, "o"), "p"), tr.Int(2, 1))
	dim := tr.Assign(3, tr.Dim(3, tr.Var(3, "m"), tr.Str(3, "k")), tr.Int(3, 1))
	res := analyze(t, tr, tr.ExprStmt(1, call), tr.ExprStmt(2, prop), tr.ExprStmt(3, dim))
	for _, id := range []ast.NodeID{call, prop, dim} {
		if res.IsDead(id) {
			t.Errorf("%s at line %d reported dead", tr.Kind(id), tr.Line(id))
		}
	}
	expectTopmost(t, res)
}

func TestHasSideEffect(t *testing.T) {
	tr := ast.NewTree(0, 0)
	tests := []struct {
		name string
		node ast.NodeID
		want bool
	}{
		{"echo", tr.Echo(1, tr.Int(1, 1)), true},
		{"call", tr.Call(1, "f"), true},
		{"method call", tr.MethodCall(1, tr.Var(1, "o"), "m"), true},
		{"new", tr.NewObject(1, "C"), true},
		{"property write", tr.Assign(1, tr.PropertyFetch(1, tr.Var(1, "o"), "p"), tr.Int(1, 1)), true},
		{"element write", tr.AssignOp(1, "Plus", tr.Dim(1, tr.Var(1, "a"), ast.NoNodeID), tr.Int(1, 1)), true},
		{"function declaration", tr.Function(1, "f", nil), true},
		{"parameter", tr.Param(1, "p"), true},
		{"dynamic variable", tr.DynVar(1, tr.Var(1, "n")), true},
		{"local write", tr.Assign(1, tr.Var(1, "x"), tr.Int(1, 1)), false},
		{"local variable", tr.Var(1, "x"), false},
		{"arithmetic", tr.Binary(1, "Plus", tr.Int(1, 1), tr.Int(1, 2)), false},
		{"increment", tr.IncDec(ast.ExprPreInc, 1, tr.Var(1, "i")), false},
		{"nop", tr.Nop(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deadcode.HasSideEffect(tr, tt.node); got != tt.want {
				t.Errorf("HasSideEffect = %v, want %v", got, tt.want)
			}
		})
	}
}
