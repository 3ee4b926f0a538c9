package ast_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"phpflow/internal/ast"
)

func names(t *ast.Tree, ids []ast.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := t.VarName(id); ok {
			out = append(out, name)
			continue
		}
		out = append(out, t.Kind(id).Short())
	}
	return out
}

func TestChildNodesLooksThroughArgs(t *testing.T) {
	tr := ast.NewTree(0, 0)
	call := tr.Call(1, "f", tr.Var(1, "a"), tr.Int(1, 2))
	got := names(tr, slices.Collect(ast.ChildNodes(tr, call)))
	if diff := cmp.Diff([]string{"a", "Int"}, got); diff != "" {
		t.Errorf("child nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestChildNodesOfDeclarationsAndClosures(t *testing.T) {
	tr := ast.NewTree(0, 0)
	fn := tr.Function(1, "f", nil, tr.Echo(2, tr.Var(2, "x")))
	if got := slices.Collect(ast.ChildNodes(tr, fn)); len(got) != 0 {
		t.Errorf("expected no children for a function declaration, got %v", got)
	}

	cl := tr.Closure(3, []ast.NodeID{tr.Param(3, "p")},
		[]ast.NodeID{tr.ClosureUse(3, "u", false), tr.ClosureUse(3, "w", true)},
		tr.Echo(4, tr.Var(4, "p")))
	got := names(tr, slices.Collect(ast.ChildNodes(tr, cl)))
	if diff := cmp.Diff([]string{"u", "w"}, got); diff != "" {
		t.Errorf("closure children mismatch (-want +got):\n%s", diff)
	}
}

func TestArrowCapturesSkipParams(t *testing.T) {
	tr := ast.NewTree(0, 0)
	body := tr.Binary(1, "Plus", tr.Var(1, "x"), tr.Var(1, "p"))
	arrow := tr.ArrowFunction(1, []ast.NodeID{tr.Param(1, "p")}, body)
	got := names(tr, ast.ArrowCaptures(tr, arrow))
	if diff := cmp.Diff([]string{"x"}, got); diff != "" {
		t.Errorf("captures mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinedVariables(t *testing.T) {
	tr := ast.NewTree(0, 0)

	list := tr.New(ast.ExprList, 1)
	itemA := tr.New(ast.NodeArrayItem, 1)
	tr.Set(itemA, ast.SlotValue, tr.Var(1, "a"))
	itemB := tr.New(ast.NodeArrayItem, 1)
	tr.Set(itemB, ast.SlotValue, tr.Dim(1, tr.Var(1, "arr"), tr.Int(1, 0)))
	tr.Set(list, ast.SlotItems, itemA, itemB)

	cases := []struct {
		name string
		stmt ast.NodeID
		want []string
	}{
		{"assign", tr.Assign(1, tr.Var(1, "x"), tr.Int(1, 1)), []string{"x"}},
		{"property write", tr.Assign(1, tr.PropertyFetch(1, tr.Var(1, "o"), "p"), tr.Int(1, 1)), []string{}},
		{"destructuring", tr.Assign(1, list, tr.Var(1, "src")), []string{"a"}},
		{"post inc", tr.IncDec(ast.ExprPostInc, 1, tr.Var(1, "i")), []string{"i"}},
		{"param", tr.Param(1, "p"), []string{"p"}},
		{"foreach", tr.Foreach(1, tr.Var(1, "xs"), tr.Var(1, "k"), tr.Var(1, "v")), []string{"k", "v"}},
		{"catch", tr.Catch(1, "E", "e"), []string{"e"}},
		{"echo", tr.Echo(1, tr.Var(1, "x")), []string{}},
	}
	for _, c := range cases {
		got := names(tr, ast.DefinedVariables(tr, c.stmt))
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%s: defined variables mismatch (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestFunctionLikesNamesMethods(t *testing.T) {
	tr := ast.NewTree(0, 0)
	method := tr.New(ast.StmtClassMethod, 3)
	tr.SetName(method, "run")
	class := tr.New(ast.StmtClass, 2)
	tr.SetName(class, "Job")
	tr.Set(class, ast.SlotStmts, method)
	inner := tr.Closure(6, nil, nil)
	fn := tr.Function(5, "main", nil, tr.ExprStmt(6, tr.Assign(6, tr.Var(6, "f"), inner)))

	units := ast.FunctionLikes(tr, []ast.NodeID{class, fn})
	got := make([]string, len(units))
	for i, u := range units {
		got[i] = u.Name
	}
	want := []string{"Job::run", "main", "{closure}@6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestVarNameDynamic(t *testing.T) {
	tr := ast.NewTree(0, 0)
	dyn := tr.DynVar(1, tr.Var(1, "name"))
	if _, ok := tr.VarName(dyn); ok {
		t.Error("dynamic variable must not report a static name")
	}
	if !tr.IsDynamicVar(dyn) {
		t.Error("expected IsDynamicVar")
	}
	if name, ok := tr.VarName(tr.Var(1, "x")); !ok || name != "x" {
		t.Errorf("expected x, got %q ok=%v", name, ok)
	}
}

func TestSetRejectsUnknownSlot(t *testing.T) {
	tr := ast.NewTree(0, 0)
	id := tr.Int(1, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when setting a slot the kind does not have")
		}
	}()
	tr.Set(id, ast.SlotStmts, tr.Nop(1))
}

func TestKindNamesRoundTrip(t *testing.T) {
	for _, k := range []ast.Kind{ast.StmtIf, ast.ExprVariable, ast.NodeArg, ast.StmtPhi} {
		got, ok := ast.KindByName(k.String())
		if !ok || got != k {
			t.Errorf("KindByName(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if ast.StmtIf.Short() != "If" {
		t.Errorf("expected If, got %s", ast.StmtIf.Short())
	}
}
