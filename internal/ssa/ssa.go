// Package ssa converts a control-flow graph to static single assignment
// form: phi statements are inserted at dominance frontiers and every
// statically named variable reference is bound to a versioned id.
package ssa

import (
	"fmt"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
)

// ID is an SSA variable: one definition of one source variable.
type ID int

// Table maps SSA ids to their defining statements. Implicit ids stand for a
// variable's value on entry, before any assignment; they have no definer.
type Table struct {
	defs []ast.NodeID
	vars []cfg.VarID
}

func (t *Table) add(v cfg.VarID, def ast.NodeID) ID {
	id := ID(len(t.defs))
	t.defs = append(t.defs, def)
	t.vars = append(t.vars, v)
	return id
}

// Def returns the statement defining id; ok is false for implicit ids.
func (t *Table) Def(id ID) (ast.NodeID, bool) {
	d := t.defs[id]
	return d, d.IsValid()
}

// IsImplicit reports ids synthesized for a variable's value on entry.
func (t *Table) IsImplicit(id ID) bool { return !t.defs[id].IsValid() }

// VarOf returns the source variable id renames.
func (t *Table) VarOf(id ID) cfg.VarID { return t.vars[id] }

func (t *Table) Len() int { return len(t.defs) }

// Result is the outcome of one conversion.
type Result struct {
	Syms  *cfg.SymTable
	Table *Table

	ids      map[ast.NodeID]ID
	phis     map[cfg.BlockID][]ast.NodeID
	implicit []ID
}

// Var returns the SSA id bound to a variable node. Reads get the id they
// observe, definitions the id they create. ok is false for dynamic names and
// for variables in unreachable blocks.
func (r *Result) Var(node ast.NodeID) (ID, bool) {
	id, ok := r.ids[node]
	return id, ok
}

// MustVar is Var for callers that know node was renamed.
func (r *Result) MustVar(node ast.NodeID) ID {
	id, ok := r.ids[node]
	if !ok {
		panic(fmt.Sprintf("ssa: no id bound to node %d", node))
	}
	return id
}

// Phis lists the phi statements placed at the top of block b.
func (r *Result) Phis(b cfg.BlockID) []ast.NodeID { return r.phis[b] }

// PhiCount is the number of phi statements in the graph.
func (r *Result) PhiCount() int {
	n := 0
	for _, p := range r.phis {
		n += len(p)
	}
	return n
}

// Implicit returns the entry-value id of source variable v.
func (r *Result) Implicit(v cfg.VarID) ID { return r.implicit[v] }

// Name renders an SSA id as $name#n for dumps and diagnostics.
func (r *Result) Name(id ID) string {
	return fmt.Sprintf("$%s#%d", r.Syms.MustName(r.Table.VarOf(id)), id)
}
