package ast

// Kind is the closed set of node kinds the analyses understand.
type Kind uint8

const (
	KindInvalid Kind = iota

	// statements
	StmtExpression
	StmtEcho
	StmtReturn
	StmtIf
	StmtElseIf
	StmtElse
	StmtFor
	StmtForeach
	StmtWhile
	StmtDo
	StmtSwitch
	StmtCase
	StmtBreak
	StmtContinue
	StmtGoto
	StmtLabel
	StmtTryCatch
	StmtCatch
	StmtFinally
	StmtFunction
	StmtClass
	StmtInterface
	StmtTrait
	StmtEnum
	StmtClassMethod
	StmtProperty
	StmtConst
	StmtInlineHTML
	StmtNop
	StmtUnset
	StmtGlobal
	StmtStatic
	StmtUse
	StmtNamespace
	StmtDeclare
	StmtThrow
	StmtBlock
	StmtPhi

	// expressions
	ExprVariable
	ExprAssign
	ExprAssignRef
	ExprAssignOp
	ExprPreInc
	ExprPreDec
	ExprPostInc
	ExprPostDec
	ExprBinaryOp
	ExprBooleanAnd
	ExprBooleanOr
	ExprLogicalAnd
	ExprLogicalOr
	ExprUnaryOp
	ExprTernary
	ExprMatch
	ExprFuncCall
	ExprMethodCall
	ExprNullsafeMethodCall
	ExprStaticCall
	ExprNew
	ExprClone
	ExprClosure
	ExprArrowFunction
	ExprPropertyFetch
	ExprNullsafePropertyFetch
	ExprStaticPropertyFetch
	ExprArrayDimFetch
	ExprArray
	ExprList
	ExprConstFetch
	ExprClassConstFetch
	ExprPrint
	ExprExit
	ExprInclude
	ExprEval
	ExprShellExec
	ExprIsset
	ExprEmpty
	ExprCast
	ExprInstanceof
	ExprYield
	ExprYieldFrom
	ExprThrow
	ExprErrorSuppress
	ScalarInt
	ScalarFloat
	ScalarString
	ScalarEncapsed
	ScalarEncapsedPart
	ScalarMagicConst

	// auxiliary nodes, never lowered on their own
	NodeArg
	NodeArrayItem
	NodeParam
	NodeClosureUse
	NodeMatchArm
	NodeStaticVar
	NodeName
	NodeIdentifier

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid: "Invalid",

	StmtExpression:  "Stmt_Expression",
	StmtEcho:        "Stmt_Echo",
	StmtReturn:      "Stmt_Return",
	StmtIf:          "Stmt_If",
	StmtElseIf:      "Stmt_ElseIf",
	StmtElse:        "Stmt_Else",
	StmtFor:         "Stmt_For",
	StmtForeach:     "Stmt_Foreach",
	StmtWhile:       "Stmt_While",
	StmtDo:          "Stmt_Do",
	StmtSwitch:      "Stmt_Switch",
	StmtCase:        "Stmt_Case",
	StmtBreak:       "Stmt_Break",
	StmtContinue:    "Stmt_Continue",
	StmtGoto:        "Stmt_Goto",
	StmtLabel:       "Stmt_Label",
	StmtTryCatch:    "Stmt_TryCatch",
	StmtCatch:       "Stmt_Catch",
	StmtFinally:     "Stmt_Finally",
	StmtFunction:    "Stmt_Function",
	StmtClass:       "Stmt_Class",
	StmtInterface:   "Stmt_Interface",
	StmtTrait:       "Stmt_Trait",
	StmtEnum:        "Stmt_Enum",
	StmtClassMethod: "Stmt_ClassMethod",
	StmtProperty:    "Stmt_Property",
	StmtConst:       "Stmt_Const",
	StmtInlineHTML:  "Stmt_InlineHTML",
	StmtNop:         "Stmt_Nop",
	StmtUnset:       "Stmt_Unset",
	StmtGlobal:      "Stmt_Global",
	StmtStatic:      "Stmt_Static",
	StmtUse:         "Stmt_Use",
	StmtNamespace:   "Stmt_Namespace",
	StmtDeclare:     "Stmt_Declare",
	StmtThrow:       "Stmt_Throw",
	StmtBlock:       "Stmt_Block",
	StmtPhi:         "Stmt_Phi",

	ExprVariable:              "Expr_Variable",
	ExprAssign:                "Expr_Assign",
	ExprAssignRef:             "Expr_AssignRef",
	ExprAssignOp:              "Expr_AssignOp",
	ExprPreInc:                "Expr_PreInc",
	ExprPreDec:                "Expr_PreDec",
	ExprPostInc:               "Expr_PostInc",
	ExprPostDec:               "Expr_PostDec",
	ExprBinaryOp:              "Expr_BinaryOp",
	ExprBooleanAnd:            "Expr_BinaryOp_BooleanAnd",
	ExprBooleanOr:             "Expr_BinaryOp_BooleanOr",
	ExprLogicalAnd:            "Expr_BinaryOp_LogicalAnd",
	ExprLogicalOr:             "Expr_BinaryOp_LogicalOr",
	ExprUnaryOp:               "Expr_UnaryOp",
	ExprTernary:               "Expr_Ternary",
	ExprMatch:                 "Expr_Match",
	ExprFuncCall:              "Expr_FuncCall",
	ExprMethodCall:            "Expr_MethodCall",
	ExprNullsafeMethodCall:    "Expr_NullsafeMethodCall",
	ExprStaticCall:            "Expr_StaticCall",
	ExprNew:                   "Expr_New",
	ExprClone:                 "Expr_Clone",
	ExprClosure:               "Expr_Closure",
	ExprArrowFunction:         "Expr_ArrowFunction",
	ExprPropertyFetch:         "Expr_PropertyFetch",
	ExprNullsafePropertyFetch: "Expr_NullsafePropertyFetch",
	ExprStaticPropertyFetch:   "Expr_StaticPropertyFetch",
	ExprArrayDimFetch:         "Expr_ArrayDimFetch",
	ExprArray:                 "Expr_Array",
	ExprList:                  "Expr_List",
	ExprConstFetch:            "Expr_ConstFetch",
	ExprClassConstFetch:       "Expr_ClassConstFetch",
	ExprPrint:                 "Expr_Print",
	ExprExit:                  "Expr_Exit",
	ExprInclude:               "Expr_Include",
	ExprEval:                  "Expr_Eval",
	ExprShellExec:             "Expr_ShellExec",
	ExprIsset:                 "Expr_Isset",
	ExprEmpty:                 "Expr_Empty",
	ExprCast:                  "Expr_Cast",
	ExprInstanceof:            "Expr_Instanceof",
	ExprYield:                 "Expr_Yield",
	ExprYieldFrom:             "Expr_YieldFrom",
	ExprThrow:                 "Expr_Throw",
	ExprErrorSuppress:         "Expr_ErrorSuppress",
	ScalarInt:                 "Scalar_Int",
	ScalarFloat:               "Scalar_Float",
	ScalarString:              "Scalar_String",
	ScalarEncapsed:            "Scalar_Encapsed",
	ScalarEncapsedPart:        "Scalar_EncapsedStringPart",
	ScalarMagicConst:          "Scalar_MagicConst",

	NodeArg:        "Arg",
	NodeArrayItem:  "ArrayItem",
	NodeParam:      "Param",
	NodeClosureUse: "ClosureUse",
	NodeMatchArm:   "MatchArm",
	NodeStaticVar:  "StaticVar",
	NodeName:       "Name",
	NodeIdentifier: "Identifier",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Short drops the category prefix: "If" for StmtIf, "Variable" for
// ExprVariable.
func (k Kind) Short() string {
	s := k.String()
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			return s[i+1:]
		}
	}
	return s
}

func (k Kind) IsStmt() bool { return k >= StmtExpression && k <= StmtPhi }

func (k Kind) IsExpr() bool { return k >= ExprVariable && k <= ScalarMagicConst }

// IsBooleanOp reports the short-circuiting operators.
func (k Kind) IsBooleanOp() bool {
	switch k {
	case ExprBooleanAnd, ExprBooleanOr, ExprLogicalAnd, ExprLogicalOr:
		return true
	}
	return false
}

func (k Kind) IsAnd() bool { return k == ExprBooleanAnd || k == ExprLogicalAnd }

func (k Kind) IsIncDec() bool {
	switch k {
	case ExprPreInc, ExprPreDec, ExprPostInc, ExprPostDec:
		return true
	}
	return false
}

// IsDecl reports declarations lowered as one opaque statement.
func (k Kind) IsDecl() bool {
	switch k {
	case StmtFunction, StmtClass, StmtInterface, StmtTrait, StmtEnum:
		return true
	}
	return false
}

// IsFunctionLike reports nodes that own a parameter list and a body.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case StmtFunction, StmtClassMethod, ExprClosure, ExprArrowFunction:
		return true
	}
	return false
}

// KindByName resolves a String() spelling back to its kind.
func KindByName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindInvalid + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()
