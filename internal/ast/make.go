package ast

// Constructors below build common shapes by hand. The JSON frontend uses the
// generic New/Set API; these exist for tests and synthetic nodes.

func (t *Tree) Var(line uint32, name string) NodeID {
	id := t.New(ExprVariable, line)
	t.SetName(id, name)
	return id
}

// DynVar builds `${expr}`.
func (t *Tree) DynVar(line uint32, nameExpr NodeID) NodeID {
	id := t.New(ExprVariable, line)
	t.Set(id, SlotName, nameExpr)
	return id
}

func (t *Tree) Int(line uint32, v int64) NodeID {
	id := t.New(ScalarInt, line)
	t.Get(id).Int = v
	return id
}

func (t *Tree) Str(line uint32, s string) NodeID {
	id := t.New(ScalarString, line)
	t.SetName(id, s)
	return id
}

func (t *Tree) Ident(line uint32, name string) NodeID {
	id := t.New(NodeIdentifier, line)
	t.SetName(id, name)
	return id
}

func (t *Tree) QName(line uint32, name string) NodeID {
	id := t.New(NodeName, line)
	t.SetName(id, name)
	return id
}

func (t *Tree) Assign(line uint32, target, value NodeID) NodeID {
	id := t.New(ExprAssign, line)
	t.Set(id, SlotVar, target)
	t.Set(id, SlotExpr, value)
	return id
}

// AssignOp builds a compound assignment such as `$x .= $y` (op "Concat").
func (t *Tree) AssignOp(line uint32, op string, target, value NodeID) NodeID {
	id := t.New(ExprAssignOp, line)
	t.SetName(id, op)
	t.Set(id, SlotVar, target)
	t.Set(id, SlotExpr, value)
	return id
}

func (t *Tree) IncDec(k Kind, line uint32, target NodeID) NodeID {
	id := t.New(k, line)
	t.Set(id, SlotVar, target)
	return id
}

// Binary builds a non-short-circuiting operator; op is the parser's
// spelling ("Plus", "Greater", "Concat").
func (t *Tree) Binary(line uint32, op string, left, right NodeID) NodeID {
	return t.binary(ExprBinaryOp, line, op, left, right)
}

// Logic builds &&, ||, and, or.
func (t *Tree) Logic(k Kind, line uint32, left, right NodeID) NodeID {
	return t.binary(k, line, "", left, right)
}

func (t *Tree) binary(k Kind, line uint32, op string, left, right NodeID) NodeID {
	id := t.New(k, line)
	if op != "" {
		t.SetName(id, op)
	}
	t.Set(id, SlotLeft, left)
	t.Set(id, SlotRight, right)
	return id
}

func (t *Tree) ExprStmt(line uint32, expr NodeID) NodeID {
	id := t.New(StmtExpression, line)
	t.Set(id, SlotExpr, expr)
	return id
}

func (t *Tree) Echo(line uint32, exprs ...NodeID) NodeID {
	id := t.New(StmtEcho, line)
	t.Set(id, SlotExprs, exprs...)
	return id
}

// Return builds `return expr;`; expr may be NoNodeID.
func (t *Tree) Return(line uint32, expr NodeID) NodeID {
	id := t.New(StmtReturn, line)
	t.Set(id, SlotExpr, expr)
	return id
}

func (t *Tree) If(line uint32, cond NodeID, stmts, elseifs []NodeID, els NodeID) NodeID {
	id := t.New(StmtIf, line)
	t.Set(id, SlotCond, cond)
	t.Set(id, SlotStmts, stmts...)
	t.Set(id, SlotElseIfs, elseifs...)
	t.Set(id, SlotElse, els)
	return id
}

func (t *Tree) ElseIf(line uint32, cond NodeID, stmts ...NodeID) NodeID {
	id := t.New(StmtElseIf, line)
	t.Set(id, SlotCond, cond)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) Else(line uint32, stmts ...NodeID) NodeID {
	id := t.New(StmtElse, line)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) While(line uint32, cond NodeID, stmts ...NodeID) NodeID {
	id := t.New(StmtWhile, line)
	t.Set(id, SlotCond, cond)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) Do(line uint32, cond NodeID, stmts ...NodeID) NodeID {
	id := t.New(StmtDo, line)
	t.Set(id, SlotStmts, stmts...)
	t.Set(id, SlotCond, cond)
	return id
}

func (t *Tree) For(line uint32, init, cond, loop, stmts []NodeID) NodeID {
	id := t.New(StmtFor, line)
	t.Set(id, SlotInit, init...)
	t.Set(id, SlotCond, cond...)
	t.Set(id, SlotLoop, loop...)
	t.Set(id, SlotStmts, stmts...)
	return id
}

// Foreach builds `foreach ($expr as $key => $value)`; key may be NoNodeID.
func (t *Tree) Foreach(line uint32, expr, key, value NodeID, stmts ...NodeID) NodeID {
	id := t.New(StmtForeach, line)
	t.Set(id, SlotExpr, expr)
	t.Set(id, SlotKeyVar, key)
	t.Set(id, SlotValueVar, value)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) Switch(line uint32, cond NodeID, cases ...NodeID) NodeID {
	id := t.New(StmtSwitch, line)
	t.Set(id, SlotCond, cond)
	t.Set(id, SlotCases, cases...)
	return id
}

// Case builds `case cond:`; a NoNodeID cond is `default:`.
func (t *Tree) Case(line uint32, cond NodeID, stmts ...NodeID) NodeID {
	id := t.New(StmtCase, line)
	t.Set(id, SlotCond, cond)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) Break(line uint32, num NodeID) NodeID {
	id := t.New(StmtBreak, line)
	t.Set(id, SlotNum, num)
	return id
}

func (t *Tree) Continue(line uint32, num NodeID) NodeID {
	id := t.New(StmtContinue, line)
	t.Set(id, SlotNum, num)
	return id
}

func (t *Tree) Goto(line uint32, label string) NodeID {
	id := t.New(StmtGoto, line)
	t.SetName(id, label)
	return id
}

func (t *Tree) Label(line uint32, label string) NodeID {
	id := t.New(StmtLabel, line)
	t.SetName(id, label)
	return id
}

func (t *Tree) Arg(line uint32, value NodeID) NodeID {
	id := t.New(NodeArg, line)
	t.Set(id, SlotValue, value)
	return id
}

func (t *Tree) args(line uint32, values []NodeID) []NodeID {
	out := make([]NodeID, len(values))
	for i, v := range values {
		out[i] = t.Arg(line, v)
	}
	return out
}

// Call builds `name(args...)` with a static function name.
func (t *Tree) Call(line uint32, name string, args ...NodeID) NodeID {
	id := t.New(ExprFuncCall, line)
	t.Set(id, SlotName, t.QName(line, name))
	t.Set(id, SlotArgs, t.args(line, args)...)
	return id
}

func (t *Tree) MethodCall(line uint32, obj NodeID, name string, args ...NodeID) NodeID {
	id := t.New(ExprMethodCall, line)
	t.Set(id, SlotVar, obj)
	t.Set(id, SlotName, t.Ident(line, name))
	t.Set(id, SlotArgs, t.args(line, args)...)
	return id
}

func (t *Tree) NewObject(line uint32, class string, args ...NodeID) NodeID {
	id := t.New(ExprNew, line)
	t.Set(id, SlotClass, t.QName(line, class))
	t.Set(id, SlotArgs, t.args(line, args)...)
	return id
}

func (t *Tree) PropertyFetch(line uint32, obj NodeID, name string) NodeID {
	id := t.New(ExprPropertyFetch, line)
	t.Set(id, SlotVar, obj)
	t.Set(id, SlotName, t.Ident(line, name))
	return id
}

func (t *Tree) Dim(line uint32, v, dim NodeID) NodeID {
	id := t.New(ExprArrayDimFetch, line)
	t.Set(id, SlotVar, v)
	t.Set(id, SlotDim, dim)
	return id
}

// Ternary builds `cond ? a : b`; a NoNodeID then is the short `cond ?: b`.
func (t *Tree) Ternary(line uint32, cond, then, els NodeID) NodeID {
	id := t.New(ExprTernary, line)
	t.Set(id, SlotCond, cond)
	t.Set(id, SlotIf, then)
	t.Set(id, SlotElse, els)
	return id
}

func (t *Tree) Match(line uint32, cond NodeID, arms ...NodeID) NodeID {
	id := t.New(ExprMatch, line)
	t.Set(id, SlotCond, cond)
	t.Set(id, SlotArms, arms...)
	return id
}

// Arm builds a match arm; empty conds is `default =>`.
func (t *Tree) Arm(line uint32, conds []NodeID, body NodeID) NodeID {
	id := t.New(NodeMatchArm, line)
	t.Set(id, SlotConds, conds...)
	t.Set(id, SlotBody, body)
	return id
}

func (t *Tree) Param(line uint32, name string) NodeID {
	id := t.New(NodeParam, line)
	t.Set(id, SlotVar, t.Var(line, name))
	return id
}

func (t *Tree) Function(line uint32, name string, params []NodeID, stmts ...NodeID) NodeID {
	id := t.New(StmtFunction, line)
	t.SetName(id, name)
	t.Set(id, SlotParams, params...)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) Closure(line uint32, params, uses []NodeID, stmts ...NodeID) NodeID {
	id := t.New(ExprClosure, line)
	t.Set(id, SlotParams, params...)
	t.Set(id, SlotUses, uses...)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) ClosureUse(line uint32, name string, byRef bool) NodeID {
	id := t.New(NodeClosureUse, line)
	t.Set(id, SlotVar, t.Var(line, name))
	if byRef {
		t.Get(id).Flags |= FlagByRef
	}
	return id
}

func (t *Tree) ArrowFunction(line uint32, params []NodeID, expr NodeID) NodeID {
	id := t.New(ExprArrowFunction, line)
	t.Set(id, SlotParams, params...)
	t.Set(id, SlotExpr, expr)
	return id
}

// Try builds try/catch/finally; finally may be NoNodeID.
func (t *Tree) Try(line uint32, stmts, catches []NodeID, finally NodeID) NodeID {
	id := t.New(StmtTryCatch, line)
	t.Set(id, SlotStmts, stmts...)
	t.Set(id, SlotCatches, catches...)
	t.Set(id, SlotFinally, finally)
	return id
}

// Catch builds `catch (Type $v)`; an empty varName omits the variable.
func (t *Tree) Catch(line uint32, typ, varName string, stmts ...NodeID) NodeID {
	id := t.New(StmtCatch, line)
	t.Set(id, SlotTypes, t.QName(line, typ))
	if varName != "" {
		t.Set(id, SlotVar, t.Var(line, varName))
	}
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) Finally(line uint32, stmts ...NodeID) NodeID {
	id := t.New(StmtFinally, line)
	t.Set(id, SlotStmts, stmts...)
	return id
}

func (t *Tree) Nop(line uint32) NodeID { return t.New(StmtNop, line) }

// Phi builds a synthetic phi: target plus one source variable per slot.
func (t *Tree) Phi(line uint32, target NodeID, sources []NodeID) NodeID {
	id := t.New(StmtPhi, line)
	t.Set(id, SlotVar, target)
	t.Set(id, SlotSources, sources...)
	return id
}
