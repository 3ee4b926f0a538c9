package ast

import (
	"slices"

	"phpflow/internal/source"
)

// Flags carry per-node boolean attributes.
type Flags uint8

const (
	// FlagByRef marks by-reference params, closure uses, foreach values.
	FlagByRef Flags = 1 << iota
	// FlagVariadic marks `...$rest` params and spread args.
	FlagVariadic
	// FlagStatic marks static closures.
	FlagStatic
)

// Node is one syntax node. Sub-nodes live in subs, parallel to SlotsOf(Kind).
type Node struct {
	Kind    Kind
	Flags   Flags
	Line    uint32
	EndLine uint32
	// Name holds identifier text: variable name, label, function or class
	// name, operator spelling for ExprBinaryOp/ExprAssignOp/ExprUnaryOp,
	// cast target, string literal value.
	Name source.StringID
	// Int is the value of a ScalarInt.
	Int int64

	subs [][]NodeID
}

// Tree owns every node of one parsed file.
type Tree struct {
	Nodes *Arena[Node]
	Names *source.Interner
	File  source.FileID
	// Root is the top-level statement list.
	Root []NodeID
}

func NewTree(file source.FileID, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Tree{
		Nodes: NewArena[Node](capHint),
		Names: source.NewInterner(),
		File:  file,
	}
}

// New allocates a node of kind k with empty slots.
func (t *Tree) New(k Kind, line uint32) NodeID {
	n := Node{Kind: k, Line: line, EndLine: line}
	if slots := SlotsOf(k); len(slots) > 0 {
		n.subs = make([][]NodeID, len(slots))
	}
	return NodeID(t.Nodes.Allocate(n))
}

// Get returns nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Line(id NodeID) uint32 {
	if n := t.Get(id); n != nil {
		return n.Line
	}
	return 0
}

func (t *Tree) Span(id NodeID) source.Span {
	n := t.Get(id)
	if n == nil {
		return source.Span{File: t.File}
	}
	return source.Span{File: t.File, Line: n.Line, EndLine: n.EndLine}
}

// Sub returns the ids stored in slot s of id, or nil when the kind has no
// such slot. The slice is shared with the tree.
func (t *Tree) Sub(id NodeID, s Slot) []NodeID {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	i := slotIndex(n.Kind, s)
	if i < 0 {
		return nil
	}
	return n.subs[i]
}

// One returns the first id in slot s, or NoNodeID.
func (t *Tree) One(id NodeID, s Slot) NodeID {
	if sub := t.Sub(id, s); len(sub) > 0 {
		return sub[0]
	}
	return NoNodeID
}

// Set replaces slot s of id. It panics when the kind has no such slot.
func (t *Tree) Set(id NodeID, s Slot, children ...NodeID) {
	n := t.Get(id)
	if n == nil {
		panic("ast: Set on invalid node")
	}
	i := slotIndex(n.Kind, s)
	if i < 0 {
		panic("ast: " + n.Kind.String() + " has no slot " + s.String())
	}
	n.subs[i] = slices.DeleteFunc(slices.Clone(children), func(c NodeID) bool { return !c.IsValid() })
}

// Append adds children to slot s of id.
func (t *Tree) Append(id NodeID, s Slot, children ...NodeID) {
	t.Set(id, s, append(slices.Clone(t.Sub(id, s)), children...)...)
}

// Each calls fn for every (slot, child) pair of id in layout order.
func (t *Tree) Each(id NodeID, fn func(s Slot, child NodeID)) {
	n := t.Get(id)
	if n == nil {
		return
	}
	for i, s := range SlotsOf(n.Kind) {
		for _, c := range n.subs[i] {
			fn(s, c)
		}
	}
}

// SetName interns name and stores it as the node's identifier text.
func (t *Tree) SetName(id NodeID, name string) {
	t.Get(id).Name = t.Names.Intern(name)
}

// NameOf returns the identifier text of id, "" when it has none.
func (t *Tree) NameOf(id NodeID) string {
	n := t.Get(id)
	if n == nil {
		return ""
	}
	s, _ := t.Names.Lookup(n.Name)
	return s
}

// VarName returns the static name of a variable node. ok is false for
// dynamic names like `$$x` and for nodes that are not variables.
func (t *Tree) VarName(id NodeID) (name string, ok bool) {
	n := t.Get(id)
	if n == nil || n.Kind != ExprVariable {
		return "", false
	}
	if len(n.subs[0]) > 0 {
		return "", false
	}
	return t.NameOf(id), true
}

// IsDynamicVar reports `$$x` / `${expr}` variables.
func (t *Tree) IsDynamicVar(id NodeID) bool {
	return t.Kind(id) == ExprVariable && len(t.Sub(id, SlotName)) > 0
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int { return int(t.Nodes.Len()) }
