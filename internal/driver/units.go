package driver

import (
	"phpflow/internal/ast"
	"phpflow/internal/cfg"
)

// Unit is one separately analysed body of a file.
type Unit struct {
	Name string
	// Node is the function-like node, or NoNodeID for the script body.
	Node ast.NodeID
}

// ScriptUnit names the top-level statements of a file.
const ScriptUnit = "{main}"

// Script reports whether u is the top level of its file.
func (u Unit) Script() bool { return !u.Node.IsValid() }

// Units lists the script body followed by every function, method and
// closure of t in source order.
func Units(t *ast.Tree) []Unit {
	fns := ast.FunctionLikes(t, t.Root)
	out := make([]Unit, 0, len(fns)+1)
	out = append(out, Unit{Name: ScriptUnit})
	for _, fn := range fns {
		out = append(out, Unit{Name: fn.Name, Node: fn.Node})
	}
	return out
}

// Build lowers u into a fresh graph.
func Build(t *ast.Tree, u Unit) (*cfg.CFG, error) {
	if u.Script() {
		return cfg.BuildScript(t, t.Root)
	}
	return cfg.BuildFunction(t, u.Node)
}
