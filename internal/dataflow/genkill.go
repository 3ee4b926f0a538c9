package dataflow

import (
	"slices"

	"phpflow/internal/ast"
	"phpflow/internal/bitset"
	"phpflow/internal/cfg"
)

// Definitions numbers every definition site of a graph and derives the
// gen/kill sets of reaching definitions. A definition is a written variable
// node; optionally every variable also gets one synthetic entry definition,
// numbered first, standing for its value before the body runs.
//
// Written nodes sitting in a block's statement list gen at their position.
// Targets bound by a terminator (foreach key and value) gen at the end of
// the block, keyed by the terminator.
type Definitions struct {
	Syms *cfg.SymTable

	nodes  []ast.NodeID
	vars   []cfg.VarID
	entry  bitset.BitSet
	byNode map[ast.NodeID]int
	byVar  []bitset.BitSet

	gen, kill           map[ast.NodeID]bitset.BitSet
	blockGen, blockKill []bitset.BitSet
}

func NewDefinitions(g *cfg.CFG, syms *cfg.SymTable, entryDefs bool) *Definitions {
	d := &Definitions{
		Syms:      syms,
		byNode:    make(map[ast.NodeID]int),
		byVar:     make([]bitset.BitSet, syms.Len()),
		gen:       make(map[ast.NodeID]bitset.BitSet),
		kill:      make(map[ast.NodeID]bitset.BitSet),
		blockGen:  make([]bitset.BitSet, g.Len()),
		blockKill: make([]bitset.BitSet, g.Len()),
	}
	if entryDefs {
		for v := range syms.Len() {
			id := d.add(cfg.VarID(v), ast.NoNodeID)
			d.entry.Set(id)
		}
	}
	d.number(g)
	d.genKills(g)
	return d
}

func (d *Definitions) add(v cfg.VarID, node ast.NodeID) int {
	id := len(d.nodes)
	d.nodes = append(d.nodes, node)
	d.vars = append(d.vars, v)
	d.byVar[v].Set(id)
	if node.IsValid() {
		d.byNode[node] = id
	}
	return id
}

// number assigns definition ids in block order.
func (d *Definitions) number(g *cfg.CFG) {
	t := g.Tree
	written := make(map[ast.NodeID]bool)
	for _, b := range g.Blocks() {
		for _, stmt := range g.StmtsAndTerminator(b.ID) {
			for _, v := range ast.DefinedVariables(t, stmt) {
				written[v] = true
			}
		}
	}
	for _, b := range g.Blocks() {
		for _, stmt := range b.Stmts {
			if !written[stmt] {
				continue
			}
			if v, ok := d.Syms.VarOf(t, stmt); ok {
				d.add(v, stmt)
			}
		}
		for _, v := range d.terminatorTargets(g, b) {
			if id, ok := d.Syms.VarOf(t, v); ok {
				d.add(id, v)
			}
		}
	}
}

// terminatorTargets lists variables b's terminator writes that are not
// statements of b themselves.
func (d *Definitions) terminatorTargets(g *cfg.CFG, b *cfg.Block) []ast.NodeID {
	if !b.Terminated() {
		return nil
	}
	var out []ast.NodeID
	for _, v := range ast.DefinedVariables(g.Tree, b.Term) {
		if !slices.Contains(b.Stmts, v) {
			out = append(out, v)
		}
	}
	return out
}

func (d *Definitions) genKills(g *cfg.CFG) {
	for _, b := range g.Blocks() {
		var bgen, bkill bitset.BitSet
		record := func(site ast.NodeID, defs []int) {
			var gen bitset.BitSet
			for _, id := range defs {
				gen.Set(id)
			}
			var kill bitset.BitSet
			for _, id := range defs {
				kill = bitset.Union(kill, d.byVar[d.vars[id]])
			}
			kill = bitset.Diff(kill, gen)
			d.gen[site] = gen
			d.kill[site] = kill
			bkill = bitset.Union(bkill, kill)
			bgen = bitset.Union(gen, bitset.Diff(bgen, kill))
		}
		for _, stmt := range b.Stmts {
			if id, ok := d.byNode[stmt]; ok {
				record(stmt, []int{id})
			}
		}
		if targets := d.terminatorTargets(g, b); len(targets) > 0 {
			var ids []int
			for _, v := range targets {
				if id, ok := d.byNode[v]; ok {
					ids = append(ids, id)
				}
			}
			record(b.Term, ids)
		}
		d.blockGen[b.ID] = bgen
		d.blockKill[b.ID] = bkill
	}
}

// Len is the number of definitions, entry definitions included.
func (d *Definitions) Len() int { return len(d.nodes) }

// Node returns the variable node of definition id; NoNodeID for an entry
// definition.
func (d *Definitions) Node(id int) ast.NodeID { return d.nodes[id] }

// Var returns the variable definition id writes.
func (d *Definitions) Var(id int) cfg.VarID { return d.vars[id] }

// ID returns the definition created by a written variable node.
func (d *Definitions) ID(node ast.NodeID) (int, bool) {
	id, ok := d.byNode[node]
	return id, ok
}

// Entry is the set of synthetic entry definitions.
func (d *Definitions) Entry() bitset.BitSet { return d.entry }

// OfVar is the set of all definitions of v.
func (d *Definitions) OfVar(v cfg.VarID) bitset.BitSet { return d.byVar[v] }

// Gen and Kill return the sets of one site: a written variable statement or
// a terminator binding loop targets. Other nodes have empty sets.
func (d *Definitions) Gen(site ast.NodeID) bitset.BitSet  { return d.gen[site] }
func (d *Definitions) Kill(site ast.NodeID) bitset.BitSet { return d.kill[site] }

func (d *Definitions) BlockGen(b cfg.BlockID) bitset.BitSet  { return d.blockGen[b] }
func (d *Definitions) BlockKill(b cfg.BlockID) bitset.BitSet { return d.blockKill[b] }
