package cfgfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
)

// maxWidth caps one rendered statement; longer text is cut with "...".
const maxWidth = 100

type ref struct {
	block cfg.BlockID
	idx   int
}

// printer renders nodes as PHP-like text. A node already listed as a block
// statement is printed as a [B<block>.<index>] reference instead.
type printer struct {
	t    *ast.Tree
	seen map[ast.NodeID]ref
}

var binaryOps = map[string]string{
	"Plus": "+", "Minus": "-", "Mul": "*", "Div": "/", "Mod": "%", "Pow": "**",
	"Concat": ".", "Coalesce": "??",
	"BitwiseAnd": "&", "BitwiseOr": "|", "BitwiseXor": "^",
	"ShiftLeft": "<<", "ShiftRight": ">>",
	"Equal": "==", "NotEqual": "!=", "Identical": "===", "NotIdentical": "!==",
	"Smaller": "<", "SmallerOrEqual": "<=", "Greater": ">", "GreaterOrEqual": ">=",
	"Spaceship": "<=>", "LogicalXor": "xor",
}

var unaryOps = map[string]string{
	"BooleanNot": "!", "BitwiseNot": "~", "UnaryMinus": "-", "UnaryPlus": "+",
}

func opSymbol(table map[string]string, name string) string {
	if s, ok := table[name]; ok {
		return s
	}
	return name
}

// stmt renders a block statement in full.
func (p *printer) stmt(id ast.NodeID) string {
	return runewidth.Truncate(p.render(id), maxWidth, "...")
}

// node renders a sub-node, preferring a back reference.
func (p *printer) node(id ast.NodeID) string {
	if !id.IsValid() {
		return ""
	}
	if r, ok := p.seen[id]; ok {
		return fmt.Sprintf("[B%d.%d]", r.block, r.idx)
	}
	return p.render(id)
}

func (p *printer) list(ids []ast.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = p.node(id)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) one(id ast.NodeID, s ast.Slot) string { return p.node(p.t.One(id, s)) }

func (p *printer) render(id ast.NodeID) string {
	t := p.t
	n := t.Get(id)
	if n == nil {
		return "<invalid>"
	}
	name := t.NameOf(id)
	switch k := n.Kind; k {
	case ast.ExprVariable:
		if dyn := t.One(id, ast.SlotName); dyn.IsValid() {
			return "${" + p.node(dyn) + "}"
		}
		return "$" + name
	case ast.ScalarInt:
		return strconv.FormatInt(n.Int, 10)
	case ast.ScalarFloat, ast.ScalarEncapsedPart:
		return name
	case ast.ScalarString:
		return strconv.Quote(name)
	case ast.ScalarEncapsed:
		return `"` + p.list(t.Sub(id, ast.SlotParts)) + `"`
	case ast.ScalarMagicConst:
		return "__" + strings.ToUpper(name) + "__"
	case ast.NodeName, ast.NodeIdentifier:
		return name
	case ast.NodeArg:
		return p.one(id, ast.SlotValue)
	case ast.NodeArrayItem:
		if key := t.One(id, ast.SlotKey); key.IsValid() {
			return p.node(key) + " => " + p.one(id, ast.SlotValue)
		}
		return p.one(id, ast.SlotValue)
	case ast.NodeParam, ast.NodeClosureUse, ast.NodeStaticVar:
		s := p.one(id, ast.SlotVar)
		if n.Flags&ast.FlagByRef != 0 {
			s = "&" + s
		}
		if def := t.One(id, ast.SlotDefault); def.IsValid() {
			s += " = " + p.node(def)
		}
		return s
	case ast.NodeMatchArm:
		conds := t.Sub(id, ast.SlotConds)
		if len(conds) == 0 {
			return "default => " + p.one(id, ast.SlotBody)
		}
		return p.list(conds) + " => " + p.one(id, ast.SlotBody)

	case ast.ExprAssign:
		return p.one(id, ast.SlotVar) + " = " + p.one(id, ast.SlotExpr)
	case ast.ExprAssignRef:
		return p.one(id, ast.SlotVar) + " =& " + p.one(id, ast.SlotExpr)
	case ast.ExprAssignOp:
		return p.one(id, ast.SlotVar) + " " + opSymbol(binaryOps, name) + "= " + p.one(id, ast.SlotExpr)
	case ast.ExprPreInc:
		return "++" + p.one(id, ast.SlotVar)
	case ast.ExprPreDec:
		return "--" + p.one(id, ast.SlotVar)
	case ast.ExprPostInc:
		return p.one(id, ast.SlotVar) + "++"
	case ast.ExprPostDec:
		return p.one(id, ast.SlotVar) + "--"
	case ast.ExprBinaryOp:
		return p.one(id, ast.SlotLeft) + " " + opSymbol(binaryOps, name) + " " + p.one(id, ast.SlotRight)
	case ast.ExprBooleanAnd, ast.ExprBooleanOr, ast.ExprLogicalAnd, ast.ExprLogicalOr:
		return p.one(id, ast.SlotLeft) + " " + logicOp(k) + " " + p.one(id, ast.SlotRight)
	case ast.ExprUnaryOp:
		return opSymbol(unaryOps, name) + p.one(id, ast.SlotExpr)
	case ast.ExprTernary:
		if then := t.One(id, ast.SlotIf); then.IsValid() {
			return p.one(id, ast.SlotCond) + " ? " + p.node(then) + " : " + p.one(id, ast.SlotElse)
		}
		return p.one(id, ast.SlotCond) + " ?: " + p.one(id, ast.SlotElse)
	case ast.ExprMatch:
		return "match (" + p.one(id, ast.SlotCond) + ") {" + p.list(t.Sub(id, ast.SlotArms)) + "}"
	case ast.ExprFuncCall:
		return p.one(id, ast.SlotName) + "(" + p.list(t.Sub(id, ast.SlotArgs)) + ")"
	case ast.ExprMethodCall:
		return p.one(id, ast.SlotVar) + "->" + p.one(id, ast.SlotName) + "(" + p.list(t.Sub(id, ast.SlotArgs)) + ")"
	case ast.ExprNullsafeMethodCall:
		return p.one(id, ast.SlotVar) + "?->" + p.one(id, ast.SlotName) + "(" + p.list(t.Sub(id, ast.SlotArgs)) + ")"
	case ast.ExprStaticCall:
		return p.one(id, ast.SlotClass) + "::" + p.one(id, ast.SlotName) + "(" + p.list(t.Sub(id, ast.SlotArgs)) + ")"
	case ast.ExprNew:
		return "new " + p.one(id, ast.SlotClass) + "(" + p.list(t.Sub(id, ast.SlotArgs)) + ")"
	case ast.ExprClone:
		return "clone " + p.one(id, ast.SlotExpr)
	case ast.ExprClosure:
		s := "function (" + p.list(t.Sub(id, ast.SlotParams)) + ")"
		if uses := t.Sub(id, ast.SlotUses); len(uses) > 0 {
			s += " use (" + p.list(uses) + ")"
		}
		return s + " {...}"
	case ast.ExprArrowFunction:
		return "fn (" + p.list(t.Sub(id, ast.SlotParams)) + ") => " + p.one(id, ast.SlotExpr)
	case ast.ExprPropertyFetch:
		return p.one(id, ast.SlotVar) + "->" + p.one(id, ast.SlotName)
	case ast.ExprNullsafePropertyFetch:
		return p.one(id, ast.SlotVar) + "?->" + p.one(id, ast.SlotName)
	case ast.ExprStaticPropertyFetch:
		return p.one(id, ast.SlotClass) + "::$" + p.one(id, ast.SlotName)
	case ast.ExprArrayDimFetch:
		return p.one(id, ast.SlotVar) + "[" + p.one(id, ast.SlotDim) + "]"
	case ast.ExprArray:
		return "[" + p.list(t.Sub(id, ast.SlotItems)) + "]"
	case ast.ExprList:
		return "list(" + p.list(t.Sub(id, ast.SlotItems)) + ")"
	case ast.ExprConstFetch:
		return p.one(id, ast.SlotName)
	case ast.ExprClassConstFetch:
		return p.one(id, ast.SlotClass) + "::" + p.one(id, ast.SlotName)
	case ast.ExprPrint:
		return "print " + p.one(id, ast.SlotExpr)
	case ast.ExprExit:
		return "exit(" + p.one(id, ast.SlotExpr) + ")"
	case ast.ExprInclude:
		return "include " + p.one(id, ast.SlotExpr)
	case ast.ExprEval:
		return "eval(" + p.one(id, ast.SlotExpr) + ")"
	case ast.ExprShellExec:
		return "`" + p.list(t.Sub(id, ast.SlotParts)) + "`"
	case ast.ExprIsset:
		return "isset(" + p.list(t.Sub(id, ast.SlotVars)) + ")"
	case ast.ExprEmpty:
		return "empty(" + p.one(id, ast.SlotExpr) + ")"
	case ast.ExprCast:
		return "(" + strings.ToLower(name) + ")" + p.one(id, ast.SlotExpr)
	case ast.ExprInstanceof:
		return p.one(id, ast.SlotExpr) + " instanceof " + p.one(id, ast.SlotClass)
	case ast.ExprYield:
		if key := t.One(id, ast.SlotKey); key.IsValid() {
			return "yield " + p.node(key) + " => " + p.one(id, ast.SlotValue)
		}
		return strings.TrimSpace("yield " + p.one(id, ast.SlotValue))
	case ast.ExprYieldFrom:
		return "yield from " + p.one(id, ast.SlotExpr)
	case ast.ExprThrow, ast.StmtThrow:
		return "throw " + p.one(id, ast.SlotExpr)
	case ast.ExprErrorSuppress:
		return "@" + p.one(id, ast.SlotExpr)

	case ast.StmtEcho:
		return "echo " + p.list(t.Sub(id, ast.SlotExprs))
	case ast.StmtReturn:
		return strings.TrimSpace("return " + p.one(id, ast.SlotExpr))
	case ast.StmtInlineHTML:
		return "?>" + strconv.Quote(name) + "<?php"
	case ast.StmtNop:
		return ";"
	case ast.StmtUnset:
		return "unset(" + p.list(t.Sub(id, ast.SlotVars)) + ")"
	case ast.StmtGlobal:
		return "global " + p.list(t.Sub(id, ast.SlotVars))
	case ast.StmtStatic:
		return "static " + p.list(t.Sub(id, ast.SlotVars))
	case ast.StmtLabel:
		return name + ":"
	case ast.StmtPhi:
		return p.one(id, ast.SlotVar) + " = Φ(" + p.list(t.Sub(id, ast.SlotSources)) + ")"
	case ast.StmtFunction:
		return "function " + name + "(" + p.list(t.Sub(id, ast.SlotParams)) + ") {...}"
	case ast.StmtClassMethod:
		return "method " + name + "(" + p.list(t.Sub(id, ast.SlotParams)) + ") {...}"
	case ast.StmtClass, ast.StmtInterface, ast.StmtTrait, ast.StmtEnum:
		return strings.ToLower(strings.TrimPrefix(k.String(), "Stmt_")) + " " + name + " {...}"
	case ast.StmtUse, ast.StmtNamespace, ast.StmtConst, ast.StmtProperty:
		return strings.ToLower(strings.TrimPrefix(k.String(), "Stmt_")) + " " + name
	}
	return n.Kind.String()
}

func logicOp(k ast.Kind) string {
	switch k {
	case ast.ExprBooleanAnd:
		return "&&"
	case ast.ExprBooleanOr:
		return "||"
	case ast.ExprLogicalAnd:
		return "and"
	}
	return "or"
}

// terminator renders only the deciding part of a control construct.
func (p *printer) terminator(id ast.NodeID) string {
	t := p.t
	s := func() string {
		switch k := t.Kind(id); k {
		case ast.StmtIf:
			return "if (" + p.one(id, ast.SlotCond) + ")"
		case ast.StmtElseIf:
			return "elseif (" + p.one(id, ast.SlotCond) + ")"
		case ast.StmtWhile:
			return "while (" + p.one(id, ast.SlotCond) + ")"
		case ast.StmtDo:
			return "do while (" + p.one(id, ast.SlotCond) + ")"
		case ast.StmtFor:
			return "for (; " + p.list(t.Sub(id, ast.SlotCond)) + ";)"
		case ast.StmtForeach:
			s := "foreach (" + p.one(id, ast.SlotExpr) + " as "
			if key := t.One(id, ast.SlotKeyVar); key.IsValid() {
				s += p.node(key) + " => "
			}
			return s + p.one(id, ast.SlotValueVar) + ")"
		case ast.StmtSwitch:
			return "switch (" + p.one(id, ast.SlotCond) + ")"
		case ast.StmtCase:
			if c := t.One(id, ast.SlotCond); c.IsValid() {
				return "case " + p.node(c) + ":"
			}
			return "default:"
		case ast.StmtBreak, ast.StmtContinue:
			return strings.TrimSpace(strings.ToLower(strings.TrimPrefix(k.String(), "Stmt_")) + " " + p.one(id, ast.SlotNum))
		case ast.StmtGoto:
			return "goto " + t.NameOf(id)
		case ast.StmtTryCatch:
			return "try"
		case ast.StmtCatch:
			return "catch (" + p.list(t.Sub(id, ast.SlotTypes)) + " " + p.one(id, ast.SlotVar) + ")"
		case ast.StmtReturn:
			return p.render(id)
		case ast.ExprTernary:
			return p.one(id, ast.SlotCond) + " ? ... : ..."
		case ast.ExprBooleanAnd, ast.ExprBooleanOr, ast.ExprLogicalAnd, ast.ExprLogicalOr:
			return p.one(id, ast.SlotLeft) + " " + logicOp(k) + " ..."
		case ast.NodeMatchArm:
			return p.list(t.Sub(id, ast.SlotConds)) + " =>"
		}
		return t.Kind(id).String()
	}()
	return runewidth.Truncate(s, maxWidth, "...")
}
