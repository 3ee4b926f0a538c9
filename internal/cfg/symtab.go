package cfg

import (
	"fmt"

	"phpflow/internal/ast"
)

// VarID is the dense id of a variable name within one CFG.
type VarID int

// SymTable interns the statically known variable names of a CFG.
type SymTable struct {
	names []string
	ids   map[string]VarID
}

func NewSymTable() *SymTable {
	return &SymTable{ids: make(map[string]VarID)}
}

// Add returns the id of name, allocating the next one on first sight.
func (s *SymTable) Add(name string) VarID {
	if id, ok := s.ids[name]; ok {
		return id
	}
	id := VarID(len(s.names))
	s.names = append(s.names, name)
	s.ids[name] = id
	return id
}

func (s *SymTable) ID(name string) (VarID, bool) {
	id, ok := s.ids[name]
	return id, ok
}

// MustID panics for a name the table never saw.
func (s *SymTable) MustID(name string) VarID {
	id, ok := s.ids[name]
	if !ok {
		panic(fmt.Sprintf("cfg: unknown variable $%s", name))
	}
	return id
}

func (s *SymTable) Name(id VarID) (string, bool) {
	if id < 0 || int(id) >= len(s.names) {
		return "", false
	}
	return s.names[id], true
}

// MustName panics for an id outside the table.
func (s *SymTable) MustName(id VarID) string {
	name, ok := s.Name(id)
	if !ok {
		panic(fmt.Sprintf("cfg: unknown variable id %d", id))
	}
	return name
}

func (s *SymTable) Len() int { return len(s.names) }

// Names lists variables by id. The slice is shared.
func (s *SymTable) Names() []string { return s.names }

// VarOf resolves a variable node to its id; ok is false for dynamic names.
func (s *SymTable) VarOf(t *ast.Tree, node ast.NodeID) (VarID, bool) {
	name, ok := t.VarName(node)
	if !ok {
		return 0, false
	}
	return s.MustID(name), true
}

// Symbols scans every statement list and terminator of g for variables.
func Symbols(g *CFG) *SymTable {
	s := NewSymTable()
	t := g.Tree
	for _, b := range g.blocks {
		for _, v := range ast.DefinedVariables(t, b.Term) {
			if name, ok := t.VarName(v); ok {
				s.Add(name)
			}
		}
		for _, stmt := range b.Stmts {
			if name, ok := t.VarName(stmt); ok {
				s.Add(name)
			}
		}
	}
	return s
}
