package ssa

import (
	"slices"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
	"phpflow/internal/dom"
)

// Convert inserts phi statements into g and renames every variable
// reference. g is mutated in place; d must describe g as it was built.
func Convert(g *cfg.CFG, d *dom.Info) *Result {
	syms := cfg.Symbols(g)
	phis := insertPhis(g, d, syms)
	r := &Result{
		Syms:     syms,
		Table:    &Table{},
		ids:      make(map[ast.NodeID]ID),
		phis:     phis,
		implicit: make([]ID, syms.Len()),
	}
	rn := &renamer{
		r:      r,
		g:      g,
		d:      d,
		acc:    cfg.NewAccess(g),
		stacks: make([][]ID, syms.Len()),
		source: make(map[ast.NodeID]bool),
	}
	for v := range r.implicit {
		id := r.Table.add(cfg.VarID(v), ast.NoNodeID)
		r.implicit[v] = id
		rn.stacks[v] = []ID{id}
	}
	for _, list := range phis {
		for _, phi := range list {
			for _, s := range g.Tree.Sub(phi, ast.SlotSources) {
				rn.source[s] = true
			}
		}
	}
	rn.run()
	rn.fillUnreachableSources()
	return r
}

type renamer struct {
	r      *Result
	g      *cfg.CFG
	d      *dom.Info
	acc    *cfg.Access
	stacks [][]ID
	// phi source variables, bound from predecessors rather than in place
	source map[ast.NodeID]bool
}

type renameFrame struct {
	block cfg.BlockID
	saved []int
	next  int
}

// run walks the dominator tree from entry with an explicit stack. On leaving
// a block every variable's stack is cut back to its height on arrival.
func (rn *renamer) run() {
	entry := rn.g.Entry()
	stack := []renameFrame{{block: entry, saved: rn.heights(), next: -1}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < 0 {
			rn.visit(top.block)
			top.next = 0
		}
		kids := rn.d.Children(top.block)
		if top.next < len(kids) {
			child := kids[top.next]
			top.next++
			stack = append(stack, renameFrame{block: child, saved: rn.heights(), next: -1})
			continue
		}
		for v, h := range top.saved {
			rn.stacks[v] = rn.stacks[v][:h]
		}
		stack = stack[:len(stack)-1]
	}
}

func (rn *renamer) heights() []int {
	out := make([]int, len(rn.stacks))
	for v, s := range rn.stacks {
		out[v] = len(s)
	}
	return out
}

func (rn *renamer) top(v cfg.VarID) ID {
	s := rn.stacks[v]
	return s[len(s)-1]
}

func (rn *renamer) push(v cfg.VarID, def ast.NodeID) ID {
	id := rn.r.Table.add(v, def)
	rn.stacks[v] = append(rn.stacks[v], id)
	return id
}

func (rn *renamer) visit(b cfg.BlockID) {
	t := rn.g.Tree
	syms := rn.r.Syms
	blk := rn.g.Block(b)

	definer := make(map[ast.NodeID]ast.NodeID)
	for _, stmt := range rn.g.StmtsAndTerminator(b) {
		for _, v := range ast.DefinedVariables(t, stmt) {
			definer[v] = stmt
		}
	}

	for _, stmt := range blk.Stmts {
		if rn.source[stmt] {
			continue
		}
		v, ok := syms.VarOf(t, stmt)
		if !ok {
			continue
		}
		def, isDef := definer[stmt]
		switch {
		case !isDef:
			rn.r.ids[stmt] = rn.top(v)
		case rn.acc.IsReadWrite(stmt):
			// the old value is read, the statement then defines a new one
			rn.r.ids[stmt] = rn.top(v)
			rn.push(v, def)
		default:
			rn.r.ids[stmt] = rn.push(v, def)
		}
	}

	// loop-head targets are written when the terminator picks the body
	if blk.Terminated() {
		for _, target := range ast.DefinedVariables(t, blk.Term) {
			if _, seen := rn.r.ids[target]; seen {
				continue
			}
			if v, ok := syms.VarOf(t, target); ok {
				rn.r.ids[target] = rn.push(v, blk.Term)
			}
		}
	}

	for _, s := range distinct(rn.g.Successors(b)) {
		phis := rn.r.phis[s]
		if len(phis) == 0 {
			continue
		}
		for j, p := range rn.g.Predecessors(s) {
			if p != b {
				continue
			}
			for _, phi := range phis {
				v := syms.MustID(t.NameOf(t.One(phi, ast.SlotVar)))
				rn.r.ids[t.Sub(phi, ast.SlotSources)[j]] = rn.top(v)
			}
		}
	}
}

// fillUnreachableSources binds phi slots fed by blocks the walk never
// visited to the variable's entry value.
func (rn *renamer) fillUnreachableSources() {
	t := rn.g.Tree
	for _, list := range rn.r.phis {
		for _, phi := range list {
			v := rn.r.Syms.MustID(t.NameOf(t.One(phi, ast.SlotVar)))
			for _, s := range t.Sub(phi, ast.SlotSources) {
				if _, ok := rn.r.ids[s]; !ok {
					rn.r.ids[s] = rn.r.implicit[v]
				}
			}
		}
	}
}

func distinct(ids []cfg.BlockID) []cfg.BlockID {
	out := make([]cfg.BlockID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
