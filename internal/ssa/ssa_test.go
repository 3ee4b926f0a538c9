package ssa_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
	"phpflow/internal/dom"
	"phpflow/internal/ssa"
	"phpflow/internal/testkit"
)

func convert(t *testing.T, tr *ast.Tree, stmts ...ast.NodeID) (*cfg.CFG, *ssa.Result) {
	t.Helper()
	g, err := cfg.BuildScript(tr, stmts)
	if err != nil {
		t.Fatalf("BuildScript: %v", err)
	}
	d := dom.Compute(g)
	r := ssa.Convert(g, d)
	if err := cfg.Validate(g); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := testkit.CheckSSA(g, d, r); err != nil {
		t.Fatalf("CheckSSA: %v", err)
	}
	return g, r
}

func TestStraightLineUseSeesAssignment(t *testing.T) {
	tr := ast.NewTree(0, 0)
	x := tr.Var(1, "x")
	asg := tr.Assign(1, x, tr.Int(1, 1))
	xr := tr.Var(2, "x")
	_, r := convert(t, tr, tr.ExprStmt(1, asg), tr.Echo(2, xr))

	if r.MustVar(xr) != r.MustVar(x) {
		t.Errorf("use bound to %s, want %s", r.Name(r.MustVar(xr)), r.Name(r.MustVar(x)))
	}
	if r.MustVar(xr) == r.Implicit(r.Syms.MustID("x")) {
		t.Errorf("use bound to the entry value")
	}
	if def, ok := r.Table.Def(r.MustVar(x)); !ok || def != asg {
		t.Errorf("definition recorded as %v, want the assignment", def)
	}
	if r.PhiCount() != 0 {
		t.Errorf("straight-line code got %d phis", r.PhiCount())
	}
}

func TestPhiAtJoin(t *testing.T) {
	tr := ast.NewTree(0, 0)
	x1 := tr.Var(1, "x")
	a1 := tr.Assign(1, x1, tr.Int(1, 1))
	x2 := tr.Var(2, "x")
	a2 := tr.Assign(2, x2, tr.Int(2, 2))
	ifs := tr.If(2, tr.Var(2, "cond"), []ast.NodeID{tr.ExprStmt(2, a2)}, nil, ast.NoNodeID)
	xr := tr.Var(3, "x")
	g, r := convert(t, tr, tr.ExprStmt(1, a1), ifs, tr.ExprStmt(3, tr.Assign(3, tr.Var(3, "y"), xr)))

	if r.PhiCount() != 1 {
		t.Fatalf("got %d phis, want exactly one", r.PhiCount())
	}
	phis := r.Phis(3)
	if len(phis) != 1 {
		t.Fatalf("phi not placed at the join: %v", phis)
	}
	phi := phis[0]
	target := tr.One(phi, ast.SlotVar)
	if name, _ := tr.VarName(target); name != "x" {
		t.Errorf("phi for $%s, want $x", name)
	}
	if stmts := g.Block(3).Stmts; stmts[0] != target || stmts[3] != phi {
		t.Errorf("phi not laid out at the top of the join: %v", stmts)
	}

	// join predecessors are [then, else]
	srcs := tr.Sub(phi, ast.SlotSources)
	got := []ssa.ID{r.MustVar(srcs[0]), r.MustVar(srcs[1])}
	want := []ssa.ID{r.MustVar(x2), r.MustVar(x1)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("phi sources mismatch (-want +got):\n%s", diff)
	}
	if r.MustVar(xr) != r.MustVar(target) {
		t.Errorf("use after the join should read the phi")
	}
	if def, _ := r.Table.Def(r.MustVar(target)); def != phi {
		t.Errorf("phi target defined by %v", def)
	}
}

func TestIncDecReadsThenDefines(t *testing.T) {
	tr := ast.NewTree(0, 0)
	n := tr.Var(1, "n")
	n2 := tr.Var(2, "n")
	inc := tr.IncDec(ast.ExprPostInc, 2, n2)
	nr := tr.Var(3, "n")
	_, r := convert(t, tr,
		tr.ExprStmt(1, tr.Assign(1, n, tr.Int(1, 0))),
		tr.ExprStmt(2, inc),
		tr.Echo(3, nr),
	)

	if r.MustVar(n2) != r.MustVar(n) {
		t.Errorf("increment should read the assigned value")
	}
	after := r.MustVar(nr)
	if after == r.MustVar(n) {
		t.Fatalf("increment did not create a new id")
	}
	if def, _ := r.Table.Def(after); def != inc {
		t.Errorf("new id defined by %v, want the increment", def)
	}
}

func TestLoopPhi(t *testing.T) {
	tr := ast.NewTree(0, 0)
	i0 := tr.Var(1, "i")
	init := tr.Assign(1, i0, tr.Int(1, 0))
	ic := tr.Var(2, "i")
	i1 := tr.Var(3, "i")
	step := tr.Assign(3, i1, tr.Binary(3, "Plus", tr.Var(3, "i"), tr.Int(3, 1)))
	loop := tr.While(2, tr.Binary(2, "Smaller", ic, tr.Int(2, 3)), tr.ExprStmt(3, step))
	_, r := convert(t, tr, tr.ExprStmt(1, init), loop)

	phis := r.Phis(4)
	if len(phis) != 1 {
		t.Fatalf("loop head phis = %v", phis)
	}
	srcs := tr.Sub(phis[0], ast.SlotSources)
	// head predecessors are [before loop, body]
	if r.MustVar(srcs[0]) != r.MustVar(i0) || r.MustVar(srcs[1]) != r.MustVar(i1) {
		t.Errorf("loop phi sources %s, %s", r.Name(r.MustVar(srcs[0])), r.Name(r.MustVar(srcs[1])))
	}
	if r.MustVar(ic) != r.MustVar(tr.One(phis[0], ast.SlotVar)) {
		t.Errorf("loop condition should read the phi")
	}
}

func TestUseBeforeDefinitionIsImplicit(t *testing.T) {
	tr := ast.NewTree(0, 0)
	u := tr.Var(1, "u")
	_, r := convert(t, tr, tr.Echo(1, u))
	id := r.MustVar(u)
	if !r.Table.IsImplicit(id) {
		t.Errorf("%s should be the entry value", r.Name(id))
	}
	if _, ok := r.Table.Def(id); ok {
		t.Errorf("implicit id has a definer")
	}
}

func TestForeachTargetsDefinedByLoopHead(t *testing.T) {
	tr := ast.NewTree(0, 0)
	v := tr.Var(1, "v")
	vr := tr.Var(2, "v")
	each := tr.Foreach(1, tr.Var(1, "xs"), ast.NoNodeID, v, tr.Echo(2, vr))
	_, r := convert(t, tr, each)

	id := r.MustVar(vr)
	if id != r.MustVar(v) {
		t.Errorf("body should read the loop target")
	}
	if def, _ := r.Table.Def(id); def != each {
		t.Errorf("loop target defined by %v, want the foreach", def)
	}
}

func TestUnreachablePredecessorFeedsEntryValue(t *testing.T) {
	tr := ast.NewTree(0, 0)
	elif := tr.ElseIf(2, tr.Var(2, "d"), tr.ExprStmt(2, tr.Assign(2, tr.Var(2, "x"), tr.Int(2, 2))))
	els := tr.Else(3, tr.Return(3, ast.NoNodeID))
	ifs := tr.If(1, tr.Var(1, "c"),
		[]ast.NodeID{tr.ExprStmt(1, tr.Assign(1, tr.Var(1, "x"), tr.Int(1, 1)))},
		[]ast.NodeID{elif}, els)
	g, r := convert(t, tr, ifs, tr.Echo(4, tr.Var(4, "x")))

	// join bb3 is fed by then, elseif and the dead block after return
	if diff := cmp.Diff([]cfg.BlockID{4, 6, 8}, g.Predecessors(3)); diff != "" {
		t.Fatalf("join predecessors mismatch (-want +got):\n%s", diff)
	}
	phis := r.Phis(3)
	if len(phis) != 1 {
		t.Fatalf("join phis = %v", phis)
	}
	last := tr.Sub(phis[0], ast.SlotSources)[2]
	if r.MustVar(last) != r.Implicit(r.Syms.MustID("x")) {
		t.Errorf("unreachable slot bound to %s", r.Name(r.MustVar(last)))
	}
}

func TestDynamicVariableHasNoID(t *testing.T) {
	tr := ast.NewTree(0, 0)
	dyn := tr.DynVar(1, tr.Str(1, "x"))
	_, r := convert(t, tr, tr.Echo(1, dyn))
	if _, ok := r.Var(dyn); ok {
		t.Errorf("dynamic variable was renamed")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustVar should panic for an unbound node")
		}
	}()
	r.MustVar(dyn)
}
