package cfg

import "phpflow/internal/ast"

// TerminatorConditions returns the nodes whose value decides the branch taken
// by block id. A short-circuit operand resolves to its last evaluated leaf,
// which is the node actually sitting in the block.
func (g *CFG) TerminatorConditions(id BlockID) []ast.NodeID {
	t := g.Tree
	term := g.blocks[id].Term
	var conds []ast.NodeID
	switch k := t.Kind(term); {
	case !term.IsValid():
		return nil
	case k == ast.StmtIf, k == ast.StmtElseIf, k == ast.StmtWhile, k == ast.StmtDo,
		k == ast.StmtSwitch, k == ast.StmtCase, k == ast.ExprTernary:
		conds = t.Sub(term, ast.SlotCond)
	case k == ast.StmtFor:
		if c := t.Sub(term, ast.SlotCond); len(c) > 0 {
			conds = c[len(c)-1:]
		}
	case k == ast.StmtForeach:
		conds = t.Sub(term, ast.SlotExpr)
	case k == ast.NodeMatchArm:
		conds = t.Sub(term, ast.SlotConds)
	case k.IsBooleanOp():
		conds = t.Sub(term, ast.SlotLeft)
	default:
		return nil
	}
	out := make([]ast.NodeID, len(conds))
	for i, c := range conds {
		for t.Kind(c).IsBooleanOp() {
			c = t.One(c, ast.SlotRight)
		}
		out[i] = c
	}
	return out
}
