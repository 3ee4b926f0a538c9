package cfg

import (
	"fmt"
	"slices"

	"phpflow/internal/ast"
)

// scope is the lowering context of one recursive call: the jump targets of
// the constructs enclosing the node being lowered. It is passed by value and
// never mutated; pushes return a new scope.
type scope struct {
	breaks    []BlockID
	continues []BlockID
	finallies []BlockID
}

func (s scope) loop(brk, cont BlockID) scope {
	s.breaks = append(slices.Clip(s.breaks), brk)
	s.continues = append(slices.Clip(s.continues), cont)
	return s
}

// withFinally routes return, break and continue of the guarded body through
// the finally block.
func (s scope) withFinally(fin BlockID) scope {
	s = s.loop(fin, fin)
	s.finallies = append(slices.Clip(s.finallies), fin)
	return s
}

type builder struct {
	g      *CFG
	t      *ast.Tree
	labels map[string]BlockID
	placed map[string]bool
}

func newBuilder(t *ast.Tree) *builder {
	return &builder{
		g:      New(t),
		t:      t,
		labels: make(map[string]BlockID),
		placed: make(map[string]bool),
	}
}

// start wires entry to a fresh first block that falls through to exit.
func (b *builder) start() BlockID {
	first := b.newBlock(b.g.exit)
	b.g.SetSuccessors(b.g.entry, first)
	return first
}

// BuildScript lowers a top-level statement list.
func BuildScript(t *ast.Tree, stmts []ast.NodeID) (*CFG, error) {
	b := newBuilder(t)
	if _, err := b.lowerList(b.start(), b.g.exit, stmts, scope{}); err != nil {
		return nil, err
	}
	return b.g, nil
}

// BuildFunction lowers a function, method, closure or arrow function.
// Parameters come first, then closure uses, then the body.
func BuildFunction(t *ast.Tree, fn ast.NodeID) (*CFG, error) {
	k := t.Kind(fn)
	if !k.IsFunctionLike() {
		return nil, fmt.Errorf("cfg: %s is not a function", k)
	}
	b := newBuilder(t)
	exit := b.g.exit
	cur, err := b.lowerList(b.start(), exit, t.Sub(fn, ast.SlotParams), scope{})
	if err != nil {
		return nil, err
	}
	if k == ast.ExprClosure {
		if cur, err = b.lowerList(cur, exit, t.Sub(fn, ast.SlotUses), scope{}); err != nil {
			return nil, err
		}
	}
	if k == ast.ExprArrowFunction {
		_, err = b.lower(cur, exit, t.One(fn, ast.SlotExpr), scope{})
	} else {
		_, err = b.lowerList(cur, exit, t.Sub(fn, ast.SlotStmts), scope{})
	}
	if err != nil {
		return nil, err
	}
	return b.g, nil
}

func (b *builder) newBlock(succ BlockID) BlockID {
	id := b.g.NewBlock()
	b.g.SetSuccessors(id, succ)
	return id
}

func (b *builder) lowerList(cur, succ BlockID, ids []ast.NodeID, sc scope) (BlockID, error) {
	var err error
	for _, id := range ids {
		if cur, err = b.lower(cur, succ, id, sc); err != nil {
			return cur, err
		}
	}
	return cur, nil
}

// lower appends id to the graph starting in block cur and returns the block
// where control continues. succ is the fallthrough target of any block the
// construct creates.
func (b *builder) lower(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	if !id.IsValid() {
		return cur, nil
	}
	t := b.t
	switch k := t.Kind(id); k {
	case ast.StmtIf:
		return b.lowerIf(cur, succ, id, sc)
	case ast.StmtFor:
		return b.lowerFor(cur, succ, id, sc)
	case ast.StmtForeach:
		return b.lowerForeach(cur, succ, id, sc)
	case ast.StmtWhile:
		return b.lowerWhile(cur, succ, id, sc)
	case ast.StmtDo:
		return b.lowerDo(cur, succ, id, sc)
	case ast.StmtSwitch:
		return b.lowerSwitch(cur, succ, id, sc)
	case ast.ExprMatch:
		return b.lowerMatch(cur, succ, id, sc)
	case ast.ExprBooleanAnd, ast.ExprBooleanOr, ast.ExprLogicalAnd, ast.ExprLogicalOr:
		return b.lowerBooleanOp(cur, succ, id, sc)
	case ast.ExprTernary:
		return b.lowerTernary(cur, succ, id, sc)
	case ast.StmtTryCatch:
		return b.lowerTry(cur, succ, id, sc)
	case ast.StmtCatch:
		return b.lowerCatch(cur, succ, id, sc)
	case ast.StmtReturn:
		return b.lowerReturn(cur, succ, id, sc)
	case ast.StmtBreak:
		return b.lowerJump(cur, succ, id, sc, sc.breaks)
	case ast.StmtContinue:
		return b.lowerJump(cur, succ, id, sc, sc.continues)
	case ast.StmtGoto:
		return b.lowerGoto(cur, succ, id)
	case ast.StmtLabel:
		return b.lowerLabel(cur, succ, id)

	case ast.StmtExpression, ast.StmtBlock, ast.StmtDeclare,
		ast.NodeArg, ast.NodeArrayItem, ast.NodeStaticVar:
		// transparent wrappers: only their contents are evaluated
		return b.lowerChildren(cur, succ, id, sc)
	case ast.NodeName, ast.NodeIdentifier:
		return cur, nil

	case ast.ExprAssign, ast.ExprAssignRef, ast.ExprAssignOp:
		// the value is evaluated before the target is written
		cur, err := b.lower(cur, succ, t.One(id, ast.SlotExpr), sc)
		if err != nil {
			return cur, err
		}
		if cur, err = b.lower(cur, succ, t.One(id, ast.SlotVar), sc); err != nil {
			return cur, err
		}
		b.g.AddStmt(cur, id)
		return cur, nil

	case ast.ExprClosure:
		for _, use := range t.Sub(id, ast.SlotUses) {
			var err error
			if cur, err = b.lower(cur, succ, t.One(use, ast.SlotVar), sc); err != nil {
				return cur, err
			}
		}
		b.g.AddStmt(cur, id)
		return cur, nil
	case ast.ExprArrowFunction:
		for _, v := range ast.ArrowCaptures(t, id) {
			b.g.AddStmt(cur, v)
		}
		b.g.AddStmt(cur, id)
		return cur, nil
	case ast.StmtFunction, ast.StmtClass, ast.StmtInterface, ast.StmtTrait, ast.StmtEnum,
		ast.StmtClassMethod:
		b.g.AddStmt(cur, id)
		return cur, nil

	case ast.StmtEcho, ast.StmtConst, ast.StmtProperty, ast.StmtInlineHTML, ast.StmtNop,
		ast.StmtUnset, ast.StmtGlobal, ast.StmtStatic, ast.StmtUse, ast.StmtNamespace,
		ast.StmtThrow,
		ast.ExprVariable, ast.ExprPreInc, ast.ExprPreDec, ast.ExprPostInc, ast.ExprPostDec,
		ast.ExprBinaryOp, ast.ExprUnaryOp, ast.ExprFuncCall, ast.ExprMethodCall,
		ast.ExprNullsafeMethodCall, ast.ExprStaticCall, ast.ExprNew, ast.ExprClone,
		ast.ExprPropertyFetch, ast.ExprNullsafePropertyFetch, ast.ExprStaticPropertyFetch,
		ast.ExprArrayDimFetch, ast.ExprArray, ast.ExprList, ast.ExprConstFetch,
		ast.ExprClassConstFetch, ast.ExprPrint, ast.ExprExit, ast.ExprInclude, ast.ExprEval,
		ast.ExprShellExec, ast.ExprIsset, ast.ExprEmpty, ast.ExprCast, ast.ExprInstanceof,
		ast.ExprYield, ast.ExprYieldFrom, ast.ExprThrow, ast.ExprErrorSuppress,
		ast.ScalarInt, ast.ScalarFloat, ast.ScalarString, ast.ScalarEncapsed,
		ast.ScalarEncapsedPart, ast.ScalarMagicConst,
		ast.NodeParam, ast.NodeClosureUse:
		cur, err := b.lowerChildren(cur, succ, id, sc)
		if err != nil {
			return cur, err
		}
		b.g.AddStmt(cur, id)
		return cur, nil

	default:
		// ElseIf, Else, Case, Finally, MatchArm only occur under their parent
		// construct; Phi is synthetic.
		return cur, &UnhandledKindError{Kind: k, Line: t.Line(id)}
	}
}

// lowerChildren evaluates every sub-node of id in slot order.
func (b *builder) lowerChildren(cur, succ BlockID, id ast.NodeID, sc scope) (BlockID, error) {
	var err error
	for _, s := range ast.SlotsOf(b.t.Kind(id)) {
		if cur, err = b.lowerList(cur, succ, b.t.Sub(id, s), sc); err != nil {
			return cur, err
		}
	}
	return cur, nil
}
