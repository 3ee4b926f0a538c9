package cfgfmt

import (
	"fmt"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
	"phpflow/internal/ssa"
)

// LineAnnotator prints the source line, once per run of equal lines within
// a block.
type LineAnnotator struct {
	Tree *ast.Tree

	block cfg.BlockID
	line  uint32
	valid bool
}

func (a *LineAnnotator) Annotate(b *cfg.Block, stmt ast.NodeID, _ int) (string, bool) {
	line := a.Tree.Line(stmt)
	if a.valid && a.block == b.ID && a.line == line {
		return "", false
	}
	a.block, a.line, a.valid = b.ID, line, true
	return fmt.Sprintf("L%d", line), true
}

// KindAnnotator prints the node kind.
type KindAnnotator struct {
	Tree *ast.Tree
}

func (a KindAnnotator) Annotate(_ *cfg.Block, stmt ast.NodeID, _ int) (string, bool) {
	return a.Tree.Kind(stmt).String(), true
}

// DeadSet is satisfied by dead-code results.
type DeadSet interface {
	IsDead(stmt ast.NodeID) bool
}

// DeadAnnotator marks dead statements.
type DeadAnnotator struct {
	Dead DeadSet
}

func (a DeadAnnotator) Annotate(_ *cfg.Block, stmt ast.NodeID, idx int) (string, bool) {
	if idx == TermIndex || !a.Dead.IsDead(stmt) {
		return "", false
	}
	return "dead", true
}

// SSAAnnotator prints the SSA name bound to variable statements.
type SSAAnnotator struct {
	SSA *ssa.Result
}

func (a SSAAnnotator) Annotate(_ *cfg.Block, stmt ast.NodeID, _ int) (string, bool) {
	id, ok := a.SSA.Var(stmt)
	if !ok {
		return "", false
	}
	return a.SSA.Name(id), true
}
