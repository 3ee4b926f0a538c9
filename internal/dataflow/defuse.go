package dataflow

import (
	"phpflow/internal/ast"
	"phpflow/internal/bitset"
	"phpflow/internal/cfg"
)

// DefUses records per block which variables are read before any local
// definition (Uses) and which are assigned anywhere (Defs), as sets of
// cfg.VarID.
type DefUses struct {
	Defs []bitset.BitSet
	Uses []bitset.BitSet
}

func NewDefUses(g *cfg.CFG, syms *cfg.SymTable) *DefUses {
	t := g.Tree
	acc := cfg.NewAccess(g)
	du := &DefUses{
		Defs: make([]bitset.BitSet, g.Len()),
		Uses: make([]bitset.BitSet, g.Len()),
	}
	for _, b := range g.Blocks() {
		var defs, uses bitset.BitSet
		// loop targets are bound before the body runs
		if b.Terminated() && t.Kind(b.Term) == ast.StmtForeach {
			for _, v := range ast.DefinedVariables(t, b.Term) {
				if id, ok := syms.VarOf(t, v); ok {
					defs.Set(int(id))
				}
			}
		}
		for _, stmt := range b.Stmts {
			id, ok := syms.VarOf(t, stmt)
			if !ok {
				continue
			}
			if acc.IsRead(stmt) && !defs.Test(int(id)) {
				uses.Set(int(id))
			}
			if acc.IsWrite(stmt) {
				defs.Set(int(id))
			}
		}
		du.Defs[b.ID] = defs
		du.Uses[b.ID] = uses
	}
	return du
}
