// Package testkit holds invariant checks shared by the analysis tests.
package testkit

import (
	"errors"
	"fmt"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
	"phpflow/internal/dom"
	"phpflow/internal/ssa"
)

// CheckDominance verifies d against the definitions on g:
//  1. entry and unreachable blocks have no idom
//  2. every reachable predecessor of a block is dominated by the block's idom
//  3. b's frontier is exactly the set of f where b dominates a predecessor
//     of f but does not strictly dominate f
func CheckDominance(g *cfg.CFG, d *dom.Info) error {
	var errs []error
	reach := g.Reachable()
	if _, ok := d.IDom(g.Entry()); ok {
		errs = append(errs, errors.New("entry has an immediate dominator"))
	}
	for _, b := range g.Blocks() {
		id := b.ID
		idom, ok := d.IDom(id)
		if !reach[id] {
			if ok {
				errs = append(errs, fmt.Errorf("bb%d: unreachable block has idom bb%d", id, idom))
			}
			continue
		}
		if id == g.Entry() {
			continue
		}
		if !ok {
			errs = append(errs, fmt.Errorf("bb%d: reachable block has no idom", id))
			continue
		}
		for _, p := range g.Predecessors(id) {
			if reach[p] && !d.Dominates(idom, p) {
				errs = append(errs, fmt.Errorf("bb%d: idom bb%d does not dominate predecessor bb%d", id, idom, p))
			}
		}
	}

	for _, b := range g.Blocks() {
		if !reach[b.ID] {
			continue
		}
		want := make(map[cfg.BlockID]bool)
		for _, f := range g.Blocks() {
			if !reach[f.ID] || (d.Dominates(b.ID, f.ID) && b.ID != f.ID) {
				continue
			}
			for _, p := range g.Predecessors(f.ID) {
				if reach[p] && d.Dominates(b.ID, p) {
					want[f.ID] = true
				}
			}
		}
		got := d.Frontier(b.ID)
		if len(got) != len(want) {
			errs = append(errs, fmt.Errorf("bb%d: frontier %v, expected %d blocks", b.ID, got, len(want)))
			continue
		}
		for _, f := range got {
			if !want[f] {
				errs = append(errs, fmt.Errorf("bb%d: bb%d is not in the frontier", b.ID, f))
			}
		}
	}
	return errors.Join(errs...)
}

// CheckSSA verifies that every named variable in a reachable block is bound,
// that phis have one source per predecessor, and that each definition
// dominates its uses. Phi sources are uses at the end of the matching
// predecessor.
func CheckSSA(g *cfg.CFG, d *dom.Info, r *ssa.Result) error {
	var errs []error
	t := g.Tree
	reach := g.Reachable()

	home := make(map[ast.NodeID]cfg.BlockID)
	for _, b := range g.Blocks() {
		for _, s := range g.StmtsAndTerminator(b.ID) {
			home[s] = b.ID
		}
	}
	dominated := func(id ssa.ID, use cfg.BlockID) error {
		if r.Table.IsImplicit(id) {
			return nil
		}
		def, _ := r.Table.Def(id)
		db, ok := home[def]
		switch {
		case !ok:
			return fmt.Errorf("%s: definition is not a statement of the graph", r.Name(id))
		case !d.Dominates(db, use):
			return fmt.Errorf("%s: defined in bb%d which does not dominate bb%d", r.Name(id), db, use)
		}
		return nil
	}

	sources := make(map[ast.NodeID]bool)
	for _, b := range g.Blocks() {
		preds := g.Predecessors(b.ID)
		for _, phi := range r.Phis(b.ID) {
			srcs := t.Sub(phi, ast.SlotSources)
			if len(srcs) != len(preds) {
				errs = append(errs, fmt.Errorf("bb%d: phi has %d sources for %d predecessors", b.ID, len(srcs), len(preds)))
				continue
			}
			for j, s := range srcs {
				sources[s] = true
				id, ok := r.Var(s)
				if !ok {
					errs = append(errs, fmt.Errorf("bb%d: phi source %d is unbound", b.ID, j))
					continue
				}
				if reach[preds[j]] {
					if err := dominated(id, preds[j]); err != nil {
						errs = append(errs, fmt.Errorf("bb%d: phi source %d: %w", b.ID, j, err))
					}
				}
			}
		}
	}

	for _, b := range g.Blocks() {
		if !reach[b.ID] {
			continue
		}
		for _, s := range b.Stmts {
			if _, named := t.VarName(s); !named || sources[s] {
				continue
			}
			id, ok := r.Var(s)
			if !ok {
				errs = append(errs, fmt.Errorf("bb%d: variable at line %d has no ssa id", b.ID, t.Line(s)))
				continue
			}
			if err := dominated(id, b.ID); err != nil {
				errs = append(errs, fmt.Errorf("bb%d: line %d: %w", b.ID, t.Line(s), err))
			}
		}
	}
	return errors.Join(errs...)
}
