// Package dom computes dominators, dominance frontiers and the dominator
// tree of a control-flow graph.
package dom

import (
	"phpflow/internal/bitset"
	"phpflow/internal/cfg"
)

// Info is the dominance relation of one graph. Blocks unreachable from entry
// have no immediate dominator, no children and an empty frontier.
type Info struct {
	entry    cfg.BlockID
	idom     []cfg.BlockID
	children [][]cfg.BlockID
	frontier []bitset.BitSet
}

// Compute runs the Cooper, Harvey, Kennedy iteration followed by the
// frontier walk.
func Compute(g *cfg.CFG) *Info {
	n := g.Len()
	d := &Info{
		entry:    g.Entry(),
		idom:     make([]cfg.BlockID, n),
		children: make([][]cfg.BlockID, n),
		frontier: make([]bitset.BitSet, n),
	}
	for i := range d.idom {
		d.idom[i] = cfg.NoBlockID
	}
	d.computeIdoms(g)
	for b := range d.idom {
		if p := d.idom[b]; p != cfg.NoBlockID {
			d.children[p] = append(d.children[p], cfg.BlockID(b)) // #nosec G115 -- b indexes a block
		}
	}
	d.computeFrontiers(g)
	return d
}

func (d *Info) computeIdoms(g *cfg.CFG) {
	postnum := g.PostOrder()
	order := cfg.Sorted(g.ReversePostOrder())

	// entry is its own dominator while iterating
	d.idom[d.entry] = d.entry
	for {
		changed := false
		for _, b := range order {
			if b == d.entry {
				continue
			}
			nd := cfg.NoBlockID
			for _, p := range g.Predecessors(b) {
				if d.idom[p] == cfg.NoBlockID {
					continue
				}
				if nd == cfg.NoBlockID {
					nd = p
					continue
				}
				nd = d.intersect(nd, p, postnum)
			}
			if nd != d.idom[b] {
				d.idom[b] = nd
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	d.idom[d.entry] = cfg.NoBlockID
}

// intersect finds the closest common dominator of a and b by climbing the
// one with the lower post-order number.
func (d *Info) intersect(a, b cfg.BlockID, postnum []int) cfg.BlockID {
	for a != b {
		for postnum[a] < postnum[b] {
			a = d.idom[a]
		}
		for postnum[b] < postnum[a] {
			b = d.idom[b]
		}
	}
	return a
}

func (d *Info) computeFrontiers(g *cfg.CFG) {
	for i := range d.idom {
		b := cfg.BlockID(i) // #nosec G115 -- i indexes a block
		preds := g.Predecessors(b)
		if len(preds) < 2 || !d.Reachable(b) {
			continue
		}
		stop := d.idom[b]
		for _, p := range preds {
			if !d.Reachable(p) {
				continue
			}
			for runner := p; runner != stop && runner != cfg.NoBlockID; runner = d.idom[runner] {
				d.frontier[runner].Set(int(b))
			}
		}
	}
}

// IDom returns the immediate dominator of b. ok is false for entry and for
// unreachable blocks.
func (d *Info) IDom(b cfg.BlockID) (cfg.BlockID, bool) {
	p := d.idom[b]
	return p, p != cfg.NoBlockID
}

// Reachable reports whether b takes part in the dominator tree.
func (d *Info) Reachable(b cfg.BlockID) bool {
	return b == d.entry || d.idom[b] != cfg.NoBlockID
}

// Dominates reports whether every path from entry to b passes through a.
// A block dominates itself.
func (d *Info) Dominates(a, b cfg.BlockID) bool {
	if !d.Reachable(a) || !d.Reachable(b) {
		return false
	}
	for ; b != cfg.NoBlockID; b = d.idom[b] {
		if b == a {
			return true
		}
	}
	return false
}

// Children lists the blocks b immediately dominates, in id order.
func (d *Info) Children(b cfg.BlockID) []cfg.BlockID { return d.children[b] }

// Frontier returns the dominance frontier of b in id order.
func (d *Info) Frontier(b cfg.BlockID) []cfg.BlockID {
	idx := d.frontier[b].Indices()
	out := make([]cfg.BlockID, len(idx))
	for i, x := range idx {
		out[i] = cfg.BlockID(x) // #nosec G115 -- x is a block id
	}
	return out
}

// FrontierSet exposes the frontier of b as a bit set over block ids.
func (d *Info) FrontierSet(b cfg.BlockID) bitset.BitSet { return d.frontier[b] }
