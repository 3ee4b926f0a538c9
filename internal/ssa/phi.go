package ssa

import (
	"phpflow/internal/ast"
	"phpflow/internal/bitset"
	"phpflow/internal/cfg"
	"phpflow/internal/dom"
)

// definingBlocks maps every source variable to the blocks assigning it.
func definingBlocks(g *cfg.CFG, syms *cfg.SymTable) []bitset.BitSet {
	t := g.Tree
	out := make([]bitset.BitSet, syms.Len())
	for _, b := range g.Blocks() {
		for _, stmt := range g.StmtsAndTerminator(b.ID) {
			for _, v := range ast.DefinedVariables(t, stmt) {
				if id, ok := syms.VarOf(t, v); ok {
					out[id].Set(int(b.ID))
				}
			}
		}
	}
	return out
}

// insertPhis places phi statements with the Cytron worklist. A phi is laid
// out as its target variable, one source variable per predecessor edge and
// the phi node itself, so the usual operands-before-operator order holds.
func insertPhis(g *cfg.CFG, d *dom.Info, syms *cfg.SymTable) map[cfg.BlockID][]ast.NodeID {
	t := g.Tree
	defs := definingBlocks(g, syms)
	pending := make(map[cfg.BlockID][]ast.NodeID)

	for v := range syms.Len() {
		name := syms.MustName(cfg.VarID(v))
		var hasPhi bitset.BitSet
		work := defs[v].Indices()
		for len(work) > 0 {
			b := cfg.BlockID(work[len(work)-1]) // #nosec G115 -- block id
			work = work[:len(work)-1]
			for _, f := range d.Frontier(b) {
				if hasPhi.Test(int(f)) {
					continue
				}
				hasPhi.Set(int(f))
				pending[f] = append(pending[f], newPhi(t, g, f, name)...)
				if !defs[v].Test(int(f)) {
					work = append(work, int(f))
				}
			}
		}
	}

	phis := make(map[cfg.BlockID][]ast.NodeID, len(pending))
	for b, stmts := range pending {
		g.PrependStmts(b, stmts...)
		for _, s := range stmts {
			if t.Kind(s) == ast.StmtPhi {
				phis[b] = append(phis[b], s)
			}
		}
	}
	return phis
}

func newPhi(t *ast.Tree, g *cfg.CFG, b cfg.BlockID, name string) []ast.NodeID {
	line := blockLine(g, b)
	target := t.Var(line, name)
	preds := g.Predecessors(b)
	sources := make([]ast.NodeID, len(preds))
	for i := range preds {
		sources[i] = t.Var(line, name)
	}
	phi := t.Phi(line, target, sources)
	out := make([]ast.NodeID, 0, len(sources)+2)
	out = append(out, target)
	out = append(out, sources...)
	return append(out, phi)
}

// blockLine picks the line a synthetic statement in b reports.
func blockLine(g *cfg.CFG, b cfg.BlockID) uint32 {
	for _, s := range g.StmtsAndTerminator(b) {
		if l := g.Tree.Line(s); l > 0 {
			return l
		}
	}
	return 0
}
