package dataflow

import (
	"phpflow/internal/bitset"
	"phpflow/internal/cfg"
)

// Live solves live variables: out is the union of the successors' in, and
// in = use ∪ (out − def). Facts are sets of cfg.VarID.
func Live(g *cfg.CFG, du *DefUses) Result[bitset.BitSet] {
	return Backward(g, Problem[bitset.BitSet]{
		Meet: unionSets,
		Transfer: func(b cfg.BlockID, out bitset.BitSet) bitset.BitSet {
			return bitset.Union(du.Uses[b], bitset.Diff(out, du.Defs[b]))
		},
		Equal: bitset.Equals,
	})
}
