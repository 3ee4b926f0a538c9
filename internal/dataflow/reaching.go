package dataflow

import (
	"phpflow/internal/ast"
	"phpflow/internal/bitset"
	"phpflow/internal/cfg"
)

func unionSets(a, b bitset.BitSet) bitset.BitSet { return bitset.Union(a, b) }

// Reaching is the reaching-definitions solution over a Definitions
// numbering.
type Reaching struct {
	Defs *Definitions
	Result[bitset.BitSet]

	before map[ast.NodeID]bitset.BitSet
}

// NewReaching solves reaching definitions; init is the set reaching entry.
func NewReaching(g *cfg.CFG, defs *Definitions, init bitset.BitSet) *Reaching {
	res := Forward(g, Problem[bitset.BitSet]{
		Meet: unionSets,
		Transfer: func(b cfg.BlockID, in bitset.BitSet) bitset.BitSet {
			return bitset.Union(defs.BlockGen(b), bitset.Diff(in, defs.BlockKill(b)))
		},
		Equal: bitset.Equals,
		Init:  init,
	})
	r := &Reaching{Defs: defs, Result: res, before: make(map[ast.NodeID]bitset.BitSet)}
	for _, b := range g.Blocks() {
		x := r.In[b.ID]
		for _, stmt := range g.StmtsAndTerminator(b.ID) {
			r.before[stmt] = x
			x = defs.apply(stmt, x)
		}
	}
	return r
}

func (d *Definitions) apply(site ast.NodeID, in bitset.BitSet) bitset.BitSet {
	return bitset.Union(bitset.Diff(in, d.kill[site]), d.gen[site])
}

// Before returns the definitions reaching a statement, ahead of its own
// effect. ok is false for nodes that are not statements of the graph.
func (r *Reaching) Before(stmt ast.NodeID) (bitset.BitSet, bool) {
	s, ok := r.before[stmt]
	return s, ok
}
