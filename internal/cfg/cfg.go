// Package cfg holds the basic-block graph of one function body and the
// builder that lowers a syntax tree into it.
package cfg

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"phpflow/internal/ast"
)

// CFG owns its blocks and both edge maps. Entry and exit are created first
// and always exist, reachable or not.
type CFG struct {
	Tree *ast.Tree

	blocks []*Block
	succs  [][]BlockID
	preds  [][]BlockID
	entry  BlockID
	exit   BlockID
}

// New returns a graph whose entry falls straight through to exit.
func New(tree *ast.Tree) *CFG {
	g := &CFG{Tree: tree}
	g.entry = g.NewBlock()
	g.exit = g.NewBlock()
	g.SetSuccessors(g.entry, g.exit)
	return g
}

func (g *CFG) Entry() BlockID { return g.entry }
func (g *CFG) Exit() BlockID  { return g.exit }

// NewBlock allocates an empty block with the next sequential id.
func (g *CFG) NewBlock() BlockID {
	n, err := safecast.Conv[int32](len(g.blocks))
	if err != nil {
		panic(fmt.Errorf("cfg: block count overflow: %w", err))
	}
	id := BlockID(n)
	g.blocks = append(g.blocks, &Block{ID: id})
	g.succs = append(g.succs, nil)
	g.preds = append(g.preds, nil)
	return id
}

// Block returns nil for an id outside the graph.
func (g *CFG) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(g.blocks) {
		return nil
	}
	return g.blocks[id]
}

// Blocks lists every block in id order. The slice is shared.
func (g *CFG) Blocks() []*Block { return g.blocks }

func (g *CFG) Len() int { return len(g.blocks) }

// Successors returns the outgoing edges of id in insertion order.
func (g *CFG) Successors(id BlockID) []BlockID { return g.succs[id] }

// Predecessors returns incoming edges in insertion order. The position of a
// predecessor here is the phi source slot it feeds.
func (g *CFG) Predecessors(id BlockID) []BlockID { return g.preds[id] }

// SetSuccessors replaces the outgoing edge list of id and keeps the reverse
// map in sync. Predecessor entries of successors kept across the rewrite
// stay in place.
func (g *CFG) SetSuccessors(id BlockID, succs ...BlockID) {
	old := g.succs[id]
	next := slices.Clone(succs)
	for _, s := range old {
		if !slices.Contains(next, s) {
			g.preds[s] = slices.DeleteFunc(g.preds[s], func(p BlockID) bool { return p == id })
		}
	}
	seen := make(map[BlockID]bool, len(next))
	for _, s := range next {
		if seen[s] {
			continue
		}
		seen[s] = true
		want := countOf(next, s)
		have := countOf(g.preds[s], id)
		for ; have < want; have++ {
			g.preds[s] = append(g.preds[s], id)
		}
		for ; have > want; have-- {
			i := slices.Index(g.preds[s], id)
			g.preds[s] = slices.Delete(g.preds[s], i, i+1)
		}
	}
	g.succs[id] = next
}

func countOf(ids []BlockID, id BlockID) int {
	n := 0
	for _, x := range ids {
		if x == id {
			n++
		}
	}
	return n
}

// AddStmt appends stmt to block id. Appending to a terminated block is a
// contract violation and panics.
func (g *CFG) AddStmt(id BlockID, stmt ast.NodeID) {
	b := g.blocks[id]
	if b.Terminated() {
		panic(fmt.Sprintf("cfg: cannot add %s (line %d) to bb%d terminated by %s (line %d)",
			g.Tree.Kind(stmt), g.Tree.Line(stmt), id, g.Tree.Kind(b.Term), g.Tree.Line(b.Term)))
	}
	b.Stmts = append(b.Stmts, stmt)
}

// PrependStmts inserts stmts at the top of block id. Used for phi placement.
func (g *CFG) PrependStmts(id BlockID, stmts ...ast.NodeID) {
	b := g.blocks[id]
	b.Stmts = append(slices.Clone(stmts), b.Stmts...)
}

// SetTerminator terminates block id with term and rewrites its successors.
// A block can be terminated once; a second call panics.
func (g *CFG) SetTerminator(id BlockID, term ast.NodeID, succs ...BlockID) {
	b := g.blocks[id]
	if b.Terminated() {
		panic(fmt.Sprintf("cfg: cannot terminate bb%d with %s (line %d), already terminated by %s (line %d)",
			id, g.Tree.Kind(term), g.Tree.Line(term), g.Tree.Kind(b.Term), g.Tree.Line(b.Term)))
	}
	g.SetSuccessors(id, succs...)
	b.Term = term
}

func (g *CFG) SetLabel(id BlockID, label string) { g.blocks[id].Label = label }

// StmtsAndTerminator lists the statements of id followed by its terminator.
func (g *CFG) StmtsAndTerminator(id BlockID) []ast.NodeID {
	b := g.blocks[id]
	if !b.Terminated() {
		return b.Stmts
	}
	return append(slices.Clip(b.Stmts), b.Term)
}
