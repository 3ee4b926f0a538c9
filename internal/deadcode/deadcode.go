// Package deadcode finds statements whose value never reaches an
// observable effect, using the def-use chains of SSA form.
package deadcode

import (
	"phpflow/internal/ast"
	"phpflow/internal/cfg"
	"phpflow/internal/ssa"
)

// Result is the dead set of one graph.
type Result struct {
	g    *cfg.CFG
	dead map[ast.NodeID]bool
}

type marker struct {
	t       *ast.Tree
	ssa     *ssa.Result
	stmt    map[ast.NodeID]bool // every statement of the graph
	dead    map[ast.NodeID]bool
	through map[ast.NodeID]bool // non-statement nodes already traversed
	work    []ast.NodeID
}

// Analyze marks g's statements dead unless an observable effect depends on
// them. g must already be in SSA form, described by r.
func Analyze(g *cfg.CFG, r *ssa.Result) *Result {
	t := g.Tree
	m := &marker{
		t:       t,
		ssa:     r,
		stmt:    make(map[ast.NodeID]bool),
		dead:    make(map[ast.NodeID]bool),
		through: make(map[ast.NodeID]bool),
	}
	for _, b := range g.Blocks() {
		for _, s := range b.Stmts {
			m.stmt[s] = true
			m.dead[s] = true
		}
	}

	reach := g.Reachable()
	for _, b := range g.Blocks() {
		if !reach[b.ID] {
			continue
		}
		conds := g.TerminatorConditions(b.ID)
		for _, s := range b.Stmts {
			if HasSideEffect(t, s) || containsNode(conds, s) {
				m.live(s)
			}
		}
		switch t.Kind(b.Term) {
		case ast.StmtReturn:
			m.expand(b.Term)
		case ast.StmtForeach:
			m.live(t.One(b.Term, ast.SlotExpr))
		}
	}

	for len(m.work) > 0 {
		s := m.work[len(m.work)-1]
		m.work = m.work[:len(m.work)-1]
		m.live(s)
	}
	return &Result{g: g, dead: m.dead}
}

// live marks s live and queues everything it depends on. Nodes that are not
// statements of the graph are looked through once.
func (m *marker) live(s ast.NodeID) {
	if !m.stmt[s] {
		if m.through[s] {
			return
		}
		m.through[s] = true
		m.expand(s)
		return
	}
	if !m.dead[s] {
		return
	}
	delete(m.dead, s)
	m.expand(s)
}

func (m *marker) expand(s ast.NodeID) {
	for c := range ast.ChildNodes(m.t, s) {
		m.work = append(m.work, c)
	}
	if m.t.Kind(s) != ast.ExprVariable {
		return
	}
	id, ok := m.ssa.Var(s)
	if !ok {
		return
	}
	def, ok := m.ssa.Table.Def(id)
	if !ok {
		return
	}
	if !m.stmt[def] {
		// loop and catch targets are bound by the terminator, not its body
		switch m.t.Kind(def) {
		case ast.StmtForeach:
			m.work = append(m.work, m.t.One(def, ast.SlotExpr))
			return
		case ast.StmtCatch:
			return
		}
	}
	m.work = append(m.work, def)
}

func containsNode(ids []ast.NodeID, id ast.NodeID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// IsDead reports a statement no live statement depends on.
func (r *Result) IsDead(stmt ast.NodeID) bool { return r.dead[stmt] }

// Dead lists every dead statement in block then statement order.
func (r *Result) Dead() []ast.NodeID {
	var out []ast.NodeID
	for _, b := range r.g.Blocks() {
		for _, s := range b.Stmts {
			if r.dead[s] {
				out = append(out, s)
			}
		}
	}
	return out
}

// Topmost lists only the dead statements not nested in another reported
// one. Phis, no-ops and labels are never reported.
func (r *Result) Topmost() []ast.NodeID {
	t := r.g.Tree
	skip := make(map[ast.NodeID]bool)
	var skipUnder func(ast.NodeID)
	skipUnder = func(s ast.NodeID) {
		for c := range ast.ChildNodes(t, s) {
			if !skip[c] {
				skip[c] = true
				skipUnder(c)
			}
		}
	}

	var out []ast.NodeID
	for _, b := range r.g.Blocks() {
		var found []ast.NodeID
		for i := len(b.Stmts) - 1; i >= 0; i-- {
			s := b.Stmts[i]
			if skip[s] || !r.dead[s] {
				continue
			}
			switch t.Kind(s) {
			case ast.StmtPhi, ast.StmtNop, ast.StmtLabel:
			default:
				found = append(found, s)
			}
			skipUnder(s)
		}
		for i := len(found) - 1; i >= 0; i-- {
			out = append(out, found[i])
		}
	}
	return out
}
