package cfg

import "phpflow/internal/ast"

type accessFlags uint8

const (
	accessWrite accessFlags = 1 << iota
	accessRead
)

// Access classifies the variable statements of a graph as reads, writes, or
// read-then-write (++, --, compound assignment). Variables not named by any
// defining statement are plain reads.
type Access struct {
	flags map[ast.NodeID]accessFlags
}

func NewAccess(g *CFG) *Access {
	a := &Access{flags: make(map[ast.NodeID]accessFlags)}
	t := g.Tree
	for _, b := range g.blocks {
		for _, stmt := range g.StmtsAndTerminator(b.ID) {
			f := accessWrite
			if ast.IsReadWrite(t, stmt) {
				f |= accessRead
			}
			for _, v := range ast.DefinedVariables(t, stmt) {
				a.flags[v] = f
			}
		}
	}
	return a
}

func (a *Access) IsWrite(v ast.NodeID) bool { return a.flags[v]&accessWrite != 0 }

// IsRead is true for plain reads and for the read half of read-then-write.
func (a *Access) IsRead(v ast.NodeID) bool {
	f, ok := a.flags[v]
	return !ok || f&accessRead != 0
}

// IsReadWrite reports targets of ++, -- and compound assignment.
func (a *Access) IsReadWrite(v ast.NodeID) bool {
	return a.flags[v] == accessWrite|accessRead
}
