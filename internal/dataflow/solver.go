// Package dataflow holds a generic fixed-point solver and the classic
// analyses built on it: def/use, reaching definitions, live variables and
// undefined-variable classification.
package dataflow

import "phpflow/internal/cfg"

// Problem parameterizes one analysis over facts of type F.
//
// Meet must be associative, commutative and idempotent, and Transfer
// monotone over a lattice of finite height; the solver imposes no iteration
// bound of its own.
type Problem[F any] struct {
	Meet     func(a, b F) F
	Transfer func(b cfg.BlockID, in F) F
	Equal    func(a, b F) bool
	// Boundary starts every block and seeds each meet.
	Boundary F
	// Init is pinned at entry for forward problems, at exit for backward ones.
	Init F
}

// Result holds the facts on block entry and exit, indexed by block id.
type Result[F any] struct {
	In  []F
	Out []F
}

// Forward propagates facts along edges. Every block except entry is swept
// until no output changes.
func Forward[F any](g *cfg.CFG, p Problem[F]) Result[F] {
	n := g.Len()
	in := make([]F, n)
	out := make([]F, n)
	for i := range out {
		in[i] = p.Boundary
		out[i] = p.Boundary
	}
	entry := g.Entry()
	in[entry] = p.Init
	out[entry] = p.Init

	for changed := true; changed; {
		changed = false
		for i := range n {
			b := cfg.BlockID(i) // #nosec G115 -- i indexes a block
			if b == entry {
				continue
			}
			x := p.Boundary
			for _, pred := range g.Predecessors(b) {
				x = p.Meet(x, out[pred])
			}
			in[b] = x
			prev := out[b]
			out[b] = p.Transfer(b, x)
			if !p.Equal(prev, out[b]) {
				changed = true
			}
		}
	}
	return Result[F]{In: in, Out: out}
}

// Backward propagates facts against edges, pinning Init at exit.
func Backward[F any](g *cfg.CFG, p Problem[F]) Result[F] {
	n := g.Len()
	in := make([]F, n)
	out := make([]F, n)
	for i := range in {
		in[i] = p.Boundary
		out[i] = p.Boundary
	}
	exit := g.Exit()
	in[exit] = p.Init
	out[exit] = p.Init

	for changed := true; changed; {
		changed = false
		for i := range n {
			b := cfg.BlockID(i) // #nosec G115 -- i indexes a block
			if b == exit {
				continue
			}
			x := p.Boundary
			for _, succ := range g.Successors(b) {
				x = p.Meet(x, in[succ])
			}
			out[b] = x
			prev := in[b]
			in[b] = p.Transfer(b, x)
			if !p.Equal(prev, in[b]) {
				changed = true
			}
		}
	}
	return Result[F]{In: in, Out: out}
}
