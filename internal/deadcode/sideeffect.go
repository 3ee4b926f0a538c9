package deadcode

import "phpflow/internal/ast"

// HasSideEffect reports whether evaluating stmt is observable on its own:
// output, exits, calls, object work, writes through properties or array
// elements, declarations and dynamically named variables. Writing a plain
// local variable is not a side effect.
func HasSideEffect(t *ast.Tree, stmt ast.NodeID) bool {
	switch k := t.Kind(stmt); k {
	case ast.StmtEcho, ast.StmtReturn, ast.StmtInlineHTML, ast.StmtThrow, ast.StmtUnset,
		ast.ExprPrint, ast.ExprExit, ast.ExprInclude, ast.ExprEval, ast.ExprShellExec,
		ast.ExprThrow:
		return true
	case ast.ExprFuncCall, ast.ExprMethodCall, ast.ExprNullsafeMethodCall, ast.ExprStaticCall,
		ast.ExprNew, ast.ExprClone, ast.ExprYield, ast.ExprYieldFrom:
		return true
	case ast.ExprPropertyFetch, ast.ExprNullsafePropertyFetch, ast.ExprStaticPropertyFetch,
		ast.ExprArrayDimFetch:
		// fetches may run magic getters
		return true
	case ast.ExprAssign, ast.ExprAssignRef, ast.ExprAssignOp:
		switch t.Kind(t.One(stmt, ast.SlotVar)) {
		case ast.ExprPropertyFetch, ast.ExprNullsafePropertyFetch, ast.ExprStaticPropertyFetch,
			ast.ExprArrayDimFetch:
			return true
		}
		return false
	case ast.StmtUse, ast.StmtNamespace, ast.StmtClass, ast.StmtInterface, ast.StmtTrait,
		ast.StmtEnum, ast.StmtFunction, ast.StmtClassMethod, ast.StmtProperty, ast.StmtConst,
		ast.StmtGlobal, ast.StmtStatic, ast.NodeParam, ast.NodeClosureUse:
		return true
	case ast.ExprVariable:
		return t.IsDynamicVar(stmt)
	}
	return false
}
