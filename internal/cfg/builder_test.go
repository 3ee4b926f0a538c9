package cfg_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
)

func build(t *testing.T, tr *ast.Tree, stmts ...ast.NodeID) *cfg.CFG {
	t.Helper()
	g, err := cfg.BuildScript(tr, stmts)
	if err != nil {
		t.Fatalf("BuildScript: %v", err)
	}
	if err := cfg.Validate(g); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return g
}

func expectSuccs(t *testing.T, g *cfg.CFG, id cfg.BlockID, want ...cfg.BlockID) {
	t.Helper()
	if diff := cmp.Diff(want, g.Successors(id), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("bb%d successors mismatch (-want +got):\n%s", id, diff)
	}
}

func expectPreds(t *testing.T, g *cfg.CFG, id cfg.BlockID, want ...cfg.BlockID) {
	t.Helper()
	if diff := cmp.Diff(want, g.Predecessors(id), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("bb%d predecessors mismatch (-want +got):\n%s", id, diff)
	}
}

func expectStmts(t *testing.T, g *cfg.CFG, id cfg.BlockID, want ...ast.NodeID) {
	t.Helper()
	if diff := cmp.Diff(want, g.Block(id).Stmts); diff != "" {
		t.Errorf("bb%d statements mismatch (-want +got):\n%s", id, diff)
	}
}

func TestBuildIfJoin(t *testing.T) {
	tr := ast.NewTree(0, 0)
	one := tr.Int(1, 1)
	x1 := tr.Var(1, "x")
	a1 := tr.Assign(1, x1, one)
	cond := tr.Var(2, "cond")
	two := tr.Int(2, 2)
	x2 := tr.Var(2, "x")
	a2 := tr.Assign(2, x2, two)
	ifs := tr.If(2, cond, []ast.NodeID{tr.ExprStmt(2, a2)}, nil, ast.NoNodeID)
	xr := tr.Var(3, "x")
	y := tr.Var(3, "y")
	a3 := tr.Assign(3, y, xr)

	g := build(t, tr, tr.ExprStmt(1, a1), ifs, tr.ExprStmt(3, a3))

	expectSuccs(t, g, g.Entry(), 2)
	expectSuccs(t, g, 2, 4, 5)
	expectSuccs(t, g, 4, 3)
	expectSuccs(t, g, 5, 3)
	expectSuccs(t, g, 3, g.Exit())
	expectPreds(t, g, 3, 4, 5)

	// the value is lowered before its target
	expectStmts(t, g, 2, one, x1, a1, cond)
	expectStmts(t, g, 4, two, x2, a2)
	expectStmts(t, g, 3, xr, y, a3)
	if g.Block(2).Term != ifs {
		t.Errorf("bb2 terminator = %v, want the if", g.Block(2).Term)
	}
	if diff := cmp.Diff([]ast.NodeID{cond}, g.TerminatorConditions(2)); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildElseIfChain(t *testing.T) {
	tr := ast.NewTree(0, 0)
	c1, c2 := tr.Var(1, "a"), tr.Var(2, "b")
	elif := tr.ElseIf(2, c2, tr.Echo(2, tr.Int(2, 2)))
	els := tr.Else(3, tr.Echo(3, tr.Int(3, 3)))
	ifs := tr.If(1, c1, []ast.NodeID{tr.Echo(1, tr.Int(1, 1))}, []ast.NodeID{elif}, els)

	g := build(t, tr, ifs)

	// next=3, then=4, else=5, elseif then=6, elseif else=7
	expectSuccs(t, g, 2, 4, 5)
	expectSuccs(t, g, 5, 6, 7)
	if g.Block(5).Term != elif {
		t.Errorf("bb5 should branch on the elseif")
	}
	if diff := cmp.Diff([]ast.NodeID{c2}, g.TerminatorConditions(5)); diff != "" {
		t.Errorf("elseif conditions mismatch (-want +got):\n%s", diff)
	}
	if len(g.Block(7).Stmts) != 2 {
		t.Errorf("else body should land in bb7, got %v", g.Block(7).Stmts)
	}
	expectPreds(t, g, 3, 4, 6, 7)
}

func TestBuildWhileLoop(t *testing.T) {
	tr := ast.NewTree(0, 0)
	cmpOp := tr.Binary(1, "Smaller", tr.Var(1, "i"), tr.Int(1, 3))
	inc := tr.IncDec(ast.ExprPostInc, 2, tr.Var(2, "i"))
	g := build(t, tr, tr.While(1, cmpOp, tr.ExprStmt(2, inc)))

	// next=3, head=4, body=5
	expectSuccs(t, g, 2, 4)
	expectSuccs(t, g, 4, 5, 3)
	expectSuccs(t, g, 5, 4)
	expectPreds(t, g, 4, 2, 5)
	if diff := cmp.Diff([]ast.NodeID{cmpOp}, g.TerminatorConditions(4)); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildBreakLeavesUnreachableBlock(t *testing.T) {
	tr := ast.NewTree(0, 0)
	brk := tr.Break(2, ast.NoNodeID)
	g := build(t, tr, tr.While(1, tr.Var(1, "c"), brk, tr.Echo(3, tr.Int(3, 1))))

	expectSuccs(t, g, 5, 3)
	if g.Block(5).Term != brk {
		t.Errorf("bb5 should end in the break")
	}
	if g.Reachable()[6] {
		t.Errorf("code after break should be unreachable")
	}
	if po := g.PostOrder(); po[6] != -1 {
		t.Errorf("unreachable block numbered %d in post order", po[6])
	}
}

func TestBuildBreakLevels(t *testing.T) {
	tests := []struct {
		name string
		num  func(tr *ast.Tree) ast.NodeID
		want []cfg.BlockID
	}{
		// outer next=3 head=4 body=5; inner next=6 head=7 body=8
		{"innermost", func(*ast.Tree) ast.NodeID { return ast.NoNodeID }, []cfg.BlockID{6}},
		{"literal one", func(tr *ast.Tree) ast.NodeID { return tr.Int(3, 1) }, []cfg.BlockID{6}},
		{"literal two", func(tr *ast.Tree) ast.NodeID { return tr.Int(3, 2) }, []cfg.BlockID{3}},
		{"out of range", func(tr *ast.Tree) ast.NodeID { return tr.Int(3, 5) }, []cfg.BlockID{3, 6}},
		{"dynamic", func(tr *ast.Tree) ast.NodeID { return tr.Var(3, "n") }, []cfg.BlockID{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ast.NewTree(0, 0)
			brk := tr.Break(3, tt.num(tr))
			inner := tr.While(2, tr.Var(2, "b"), brk)
			g := build(t, tr, tr.While(1, tr.Var(1, "a"), inner))
			expectSuccs(t, g, 8, tt.want...)
		})
	}
}

func TestBuildBreakOutsideLoop(t *testing.T) {
	tr := ast.NewTree(0, 0)
	g := build(t, tr, tr.Break(1, ast.NoNodeID))
	expectSuccs(t, g, 2)
}

func TestBuildFor(t *testing.T) {
	tr := ast.NewTree(0, 0)
	init := tr.Assign(1, tr.Var(1, "i"), tr.Int(1, 0))
	cond := tr.Binary(1, "Smaller", tr.Var(1, "i"), tr.Int(1, 3))
	step := tr.IncDec(ast.ExprPostInc, 1, tr.Var(1, "i"))
	loop := tr.For(1, []ast.NodeID{init}, []ast.NodeID{cond}, []ast.NodeID{step},
		[]ast.NodeID{tr.Echo(2, tr.Var(2, "i"))})
	g := build(t, tr, loop)

	// next=3, tail=4, body=5, test=6
	expectSuccs(t, g, 2, 6)
	expectSuccs(t, g, 6, 5, 3)
	expectSuccs(t, g, 5, 4)
	expectSuccs(t, g, 4, 6)
	expectPreds(t, g, 6, 2, 4)
	if g.Block(4).Stmts[len(g.Block(4).Stmts)-1] != step {
		t.Errorf("loop step should close the tail block")
	}
	if diff := cmp.Diff([]ast.NodeID{cond}, g.TerminatorConditions(6)); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildForeach(t *testing.T) {
	tr := ast.NewTree(0, 0)
	xs := tr.Var(1, "xs")
	each := tr.Foreach(1, xs, tr.Var(1, "k"), tr.Var(1, "v"), tr.Echo(2, tr.Var(2, "v")))
	g := build(t, tr, each)

	expectStmts(t, g, 2, xs)
	expectSuccs(t, g, 2, 4)
	expectSuccs(t, g, 4, 5, 3)
	expectPreds(t, g, 4, 2, 5)
	if diff := cmp.Diff([]ast.NodeID{xs}, g.TerminatorConditions(4)); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDoWhile(t *testing.T) {
	tr := ast.NewTree(0, 0)
	c := tr.Var(2, "c")
	g := build(t, tr, tr.Do(1, c, tr.Echo(1, tr.Int(1, 1))))

	// next=3, test=4, body=5
	expectSuccs(t, g, 2, 5)
	expectSuccs(t, g, 5, 4)
	expectSuccs(t, g, 4, 5, 3)
	if diff := cmp.Diff([]ast.NodeID{c}, g.TerminatorConditions(4)); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildShortCircuitCondition(t *testing.T) {
	tr := ast.NewTree(0, 0)
	a, b := tr.Var(1, "a"), tr.Var(1, "b")
	and := tr.Logic(ast.ExprBooleanAnd, 1, a, b)
	ifs := tr.If(1, and, []ast.NodeID{tr.Echo(1, tr.Int(1, 1))}, nil, ast.NoNodeID)
	g := build(t, tr, ifs)

	// next=3, then=4, else=5, right operand=6
	expectSuccs(t, g, 2, 6, 5)
	expectSuccs(t, g, 6, 4, 5)
	if g.Block(2).Term != and || g.Block(6).Term != ifs {
		t.Errorf("unexpected terminators %v, %v", g.Block(2).Term, g.Block(6).Term)
	}
	if diff := cmp.Diff([]ast.NodeID{a}, g.TerminatorConditions(2)); diff != "" {
		t.Errorf("left conditions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ast.NodeID{b}, g.TerminatorConditions(6)); diff != "" {
		t.Errorf("leaf conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildBooleanValue(t *testing.T) {
	tr := ast.NewTree(0, 0)
	a, b := tr.Var(1, "a"), tr.Var(1, "b")
	or := tr.Logic(ast.ExprBooleanOr, 1, a, b)
	r := tr.Var(1, "r")
	asg := tr.Assign(1, r, or)
	g := build(t, tr, tr.ExprStmt(1, asg))

	// join=3, right operand=4
	expectSuccs(t, g, 2, 3, 4)
	expectSuccs(t, g, 4, 3)
	expectPreds(t, g, 3, 4, 2)
	expectStmts(t, g, 3, or, r, asg)
	expectStmts(t, g, 4, b)
}

func TestBuildSwitchFallthroughAndDefault(t *testing.T) {
	tr := ast.NewTree(0, 0)
	x := tr.Var(1, "x")
	c1 := tr.Case(2, tr.Int(2, 1), tr.Echo(2, tr.Int(2, 1)))
	c2 := tr.Case(3, tr.Int(3, 2), tr.Echo(3, tr.Int(3, 2)), tr.Break(3, ast.NoNodeID))
	def := tr.Case(4, ast.NoNodeID, tr.Echo(4, tr.Int(4, 3)))
	sw := tr.Switch(1, x, c1, c2, def)
	g := build(t, tr, sw)

	// next=3; bodies default=4, case2=5, case1=7; tests case2=8, case1=9
	expectStmts(t, g, 2, x)
	expectSuccs(t, g, 2, 9)
	expectSuccs(t, g, 9, 7, 8)
	expectSuccs(t, g, 8, 5, 4)
	expectSuccs(t, g, 7, 5)
	expectSuccs(t, g, 5, 3)
	expectSuccs(t, g, 4, 3)
	if g.Block(9).Term != c1 || g.Block(8).Term != c2 {
		t.Errorf("case tests should be terminated by their cases")
	}
}

func TestBuildMatch(t *testing.T) {
	tr := ast.NewTree(0, 0)
	x := tr.Var(1, "x")
	arm1 := tr.Arm(2, []ast.NodeID{tr.Int(2, 1), tr.Int(2, 2)}, tr.Str(2, "low"))
	def := tr.Arm(3, nil, tr.Str(3, "other"))
	m := tr.Match(1, x, arm1, def)
	r := tr.Var(1, "r")
	g := build(t, tr, tr.ExprStmt(1, tr.Assign(1, r, m)))

	// next=3; bodies default=4, arm1=5; tests cond2=6, cond1=7
	expectSuccs(t, g, 2, 7)
	expectSuccs(t, g, 7, 5, 6)
	expectSuccs(t, g, 6, 5, 4)
	expectSuccs(t, g, 5, 3)
	expectSuccs(t, g, 4, 3)
	if g.Block(2).Term != m {
		t.Errorf("match entry should be terminated by the match")
	}
}

func TestBuildTernary(t *testing.T) {
	tr := ast.NewTree(0, 0)
	c := tr.Var(1, "c")
	tern := tr.Ternary(1, c, tr.Int(1, 1), tr.Int(1, 2))
	g := build(t, tr, tr.Echo(1, tern))

	// next=3, then=4, else=5
	expectSuccs(t, g, 2, 4, 5)
	expectPreds(t, g, 3, 4, 5)
	if stmts := g.Block(3).Stmts; stmts[0] != tern {
		t.Errorf("ternary should open the join block, got %v", stmts)
	}
}

func TestBuildTryCatch(t *testing.T) {
	tr := ast.NewTree(0, 0)
	call := tr.Call(1, "f")
	catch := tr.Catch(2, "Exception", "e", tr.Echo(2, tr.Var(2, "e")))
	try := tr.Try(1, []ast.NodeID{tr.ExprStmt(1, call)}, []ast.NodeID{catch}, ast.NoNodeID)
	g := build(t, tr, try)

	// after=3, try body=4, catch entry=5, catch body=6
	expectSuccs(t, g, 2, 4, 5)
	expectStmts(t, g, 4, call)
	expectSuccs(t, g, 4, 3)
	expectSuccs(t, g, 5, 6)
	expectSuccs(t, g, 6, 3)
	if g.Block(5).Term != catch {
		t.Errorf("catch entry should be terminated by the catch")
	}
}

func TestBuildReturnThroughFinally(t *testing.T) {
	tr := ast.NewTree(0, 0)
	ret := tr.Return(2, tr.Int(2, 1))
	fin := tr.Finally(3, tr.Echo(3, tr.Int(3, 2)))
	fn := tr.Function(1, "f", nil, tr.Try(2, []ast.NodeID{ret}, nil, fin))
	g, err := cfg.BuildFunction(tr, fn)
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}

	// after=3, finally=4, try body=5
	expectSuccs(t, g, 5, 4)
	expectSuccs(t, g, 4, 3)
	expectSuccs(t, g, 3, g.Exit())
}

func TestBuildFunctionParamsAndReturn(t *testing.T) {
	tr := ast.NewTree(0, 0)
	p := tr.Param(1, "a")
	a := tr.Var(2, "a")
	fn := tr.Function(1, "f", []ast.NodeID{p}, tr.Return(2, a), tr.Echo(3, tr.Int(3, 1)))
	g, err := cfg.BuildFunction(tr, fn)
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	expectStmts(t, g, 2, tr.One(p, ast.SlotVar), p, a)
	expectSuccs(t, g, 2, g.Exit())
	if g.Reachable()[3] {
		t.Errorf("code after return should be unreachable")
	}
}

func TestBuildClosureUses(t *testing.T) {
	tr := ast.NewTree(0, 0)
	use := tr.ClosureUse(1, "u", false)
	cl := tr.Closure(1, nil, []ast.NodeID{use}, tr.Echo(2, tr.Var(2, "u")))
	g, err := cfg.BuildFunction(tr, cl)
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	if stmts := g.Block(2).Stmts; len(stmts) < 2 || stmts[1] != use {
		t.Errorf("closure use should be lowered ahead of the body, got %v", stmts)
	}
}

func TestBuildFunctionRejectsNonFunction(t *testing.T) {
	tr := ast.NewTree(0, 0)
	if _, err := cfg.BuildFunction(tr, tr.Echo(1)); err == nil {
		t.Fatal("expected an error for a non-function node")
	}
}

func TestBuildGotoForward(t *testing.T) {
	tr := ast.NewTree(0, 0)
	label := tr.Label(3, "end")
	g := build(t, tr,
		tr.Goto(1, "end"),
		tr.Echo(2, tr.Int(2, 1)),
		label,
		tr.Echo(3, tr.Int(3, 2)),
	)

	// after goto=3, label=4
	expectSuccs(t, g, 2, 4)
	expectPreds(t, g, 4, 2, 3)
	if g.Block(4).Label != "end" || g.Block(4).Stmts[0] != label {
		t.Errorf("label block not set up: %+v", g.Block(4))
	}
	if g.Reachable()[3] {
		t.Errorf("code after goto should be unreachable")
	}
}

func TestBuildDuplicateLabel(t *testing.T) {
	tr := ast.NewTree(0, 0)
	_, err := cfg.BuildScript(tr, []ast.NodeID{tr.Label(1, "a"), tr.Label(2, "a")})
	if err == nil {
		t.Fatal("expected an error for a redeclared label")
	}
}

func TestBuildUnhandledKind(t *testing.T) {
	tr := ast.NewTree(0, 0)
	_, err := cfg.BuildScript(tr, []ast.NodeID{tr.ElseIf(4, tr.Var(4, "x"))})
	var uk *cfg.UnhandledKindError
	if !errors.As(err, &uk) {
		t.Fatalf("expected UnhandledKindError, got %v", err)
	}
	if uk.Kind != ast.StmtElseIf || uk.Line != 4 {
		t.Errorf("unexpected error fields: %+v", uk)
	}
}
