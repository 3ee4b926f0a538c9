package cfg

import "phpflow/internal/ast"

type BlockID int32

const NoBlockID BlockID = -1

// Block is a basic block. Successor edges live in the CFG, not here.
type Block struct {
	ID    BlockID
	Stmts []ast.NodeID
	// Term is the construct whose evaluation picks the outgoing edge, or
	// NoNodeID for a plain fallthrough.
	Term  ast.NodeID
	Label string
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.IsValid()
}
