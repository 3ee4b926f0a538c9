package phpjson

import (
	"strings"

	"phpflow/internal/ast"
)

// aliases maps node types whose spelling differs between parser versions,
// or that fold into a broader kind, to the kind they decode to.
var aliases = map[string]ast.Kind{
	// v4 spellings
	"Scalar_LNumber":  ast.ScalarInt,
	"Scalar_DNumber":  ast.ScalarFloat,
	"Expr_ArrayItem":  ast.NodeArrayItem,
	"Expr_ClosureUse": ast.NodeClosureUse,
	"Stmt_StaticVar":  ast.NodeStaticVar,

	// v5 spellings
	"Scalar_InterpolatedString": ast.ScalarEncapsed,
	"InterpolatedStringPart":    ast.ScalarEncapsedPart,

	"Name_FullyQualified": ast.NodeName,
	"Name_Relative":       ast.NodeName,
	"VarLikeIdentifier":   ast.NodeIdentifier,
	"VariadicPlaceholder": ast.NodeArg,

	// declarations the analyses treat as opaque
	"Stmt_ClassConst":   ast.StmtConst,
	"Stmt_EnumCase":     ast.StmtConst,
	"Stmt_TraitUse":     ast.StmtUse,
	"Stmt_GroupUse":     ast.StmtUse,
	"Stmt_HaltCompiler": ast.StmtNop,
}

// unaryOps are prefix operators with a node type of their own.
var unaryOps = map[string]string{
	"Expr_BooleanNot": "BooleanNot",
	"Expr_BitwiseNot": "BitwiseNot",
	"Expr_UnaryMinus": "UnaryMinus",
	"Expr_UnaryPlus":  "UnaryPlus",
}

// families fold an operator suffix into the node's name.
var families = []struct {
	prefix string
	kind   ast.Kind
}{
	{"Expr_BinaryOp_", ast.ExprBinaryOp},
	{"Expr_AssignOp_", ast.ExprAssignOp},
	{"Expr_Cast_", ast.ExprCast},
	{"Scalar_MagicConst_", ast.ScalarMagicConst},
}

// kindOf resolves a node type. name is the operator or cast suffix recorded
// as the node's name, empty when the type carries none.
func kindOf(nodeType string) (k ast.Kind, name string, ok bool) {
	if k, ok := ast.KindByName(nodeType); ok {
		return k, "", true
	}
	if k, ok := aliases[nodeType]; ok {
		return k, "", true
	}
	if op, ok := unaryOps[nodeType]; ok {
		return ast.ExprUnaryOp, op, true
	}
	for _, f := range families {
		if suffix, found := strings.CutPrefix(nodeType, f.prefix); found && suffix != "" {
			return f.kind, suffix, true
		}
	}
	return ast.KindInvalid, "", false
}
