package ast

// NodeID is the stable arena index of a syntax node. It replaces object
// identity wherever analyses key maps by node.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
