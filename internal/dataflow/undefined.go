package dataflow

import (
	"phpflow/internal/ast"
	"phpflow/internal/bitset"
	"phpflow/internal/cfg"
)

// Status classifies a variable read.
type Status uint8

const (
	Defined Status = iota
	MaybeUndefined
	Undefined
	// Unknown covers dynamic names and nodes that are not reads.
	Unknown
)

var statusNames = [...]string{
	Defined:        "defined",
	MaybeUndefined: "maybe-undefined",
	Undefined:      "undefined",
	Unknown:        "unknown",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Status(?)"
}

// UndefinedVars answers whether a variable may be read before assignment,
// using reaching definitions seeded with one entry definition per variable.
type UndefinedVars struct {
	g     *cfg.CFG
	acc   *cfg.Access
	defs  *Definitions
	reach *Reaching
}

func NewUndefinedVars(g *cfg.CFG) *UndefinedVars {
	syms := cfg.Symbols(g)
	defs := NewDefinitions(g, syms, true)
	return &UndefinedVars{
		g:     g,
		acc:   cfg.NewAccess(g),
		defs:  defs,
		reach: NewReaching(g, defs, defs.Entry()),
	}
}

// Status classifies the read at variable node v. A read-modify-write target
// such as `$n++` is classified by its read.
func (u *UndefinedVars) Status(v ast.NodeID) Status {
	t := u.g.Tree
	id, ok := u.defs.Syms.VarOf(t, v)
	if !ok {
		return Unknown
	}
	if u.acc.IsWrite(v) && !u.acc.IsReadWrite(v) {
		return Unknown
	}
	reaching, ok := u.reach.Before(v)
	if !ok {
		return Unknown
	}
	reaching = bitset.Intersect(reaching, u.defs.OfVar(id))
	fromEntry := bitset.Intersect(reaching, u.defs.Entry())
	switch {
	case fromEntry.IsEmpty():
		return Defined
	case fromEntry.Count() < reaching.Count():
		return MaybeUndefined
	default:
		return Undefined
	}
}

// Read is one classified variable read.
type Read struct {
	Node   ast.NodeID
	Name   string
	Line   uint32
	Status Status
}

// Reads classifies every statically named read in blocks reachable from
// entry, in block then statement order.
func (u *UndefinedVars) Reads() []Read {
	t := u.g.Tree
	reach := u.g.Reachable()
	var out []Read
	for _, b := range u.g.Blocks() {
		if !reach[b.ID] {
			continue
		}
		for _, stmt := range b.Stmts {
			name, ok := t.VarName(stmt)
			if !ok || !u.acc.IsRead(stmt) {
				continue
			}
			out = append(out, Read{Node: stmt, Name: name, Line: t.Line(stmt), Status: u.Status(stmt)})
		}
	}
	return out
}
