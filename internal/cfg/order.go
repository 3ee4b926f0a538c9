package cfg

// Orderings are dense slices indexed by BlockID; blocks that entry cannot
// reach get -1.

type dfsFrame struct {
	id   BlockID
	next int
}

// walk runs one depth-first traversal from entry, following successors in
// edge order, and reports first visits and finishes.
func (g *CFG) walk(pre, post func(BlockID)) {
	seen := make([]bool, len(g.blocks))
	stack := []dfsFrame{{id: g.entry}}
	seen[g.entry] = true
	pre(g.entry)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succs := g.succs[top.id]
		if top.next < len(succs) {
			s := succs[top.next]
			top.next++
			if !seen[s] {
				seen[s] = true
				pre(s)
				stack = append(stack, dfsFrame{id: s})
			}
			continue
		}
		post(top.id)
		stack = stack[:len(stack)-1]
	}
}

func unnumbered(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	return out
}

// PostOrder numbers blocks in the order the traversal finishes them.
func (g *CFG) PostOrder() []int {
	order := unnumbered(len(g.blocks))
	n := 0
	g.walk(func(BlockID) {}, func(id BlockID) {
		order[id] = n
		n++
	})
	return order
}

// ReversePostOrder numbers blocks by first visit from entry. It uses the same
// traversal as PostOrder.
func (g *CFG) ReversePostOrder() []int {
	order := unnumbered(len(g.blocks))
	n := 0
	g.walk(func(id BlockID) {
		order[id] = n
		n++
	}, func(BlockID) {})
	return order
}

// Sorted lists reachable blocks by ascending order number.
func Sorted(order []int) []BlockID {
	count := 0
	for _, o := range order {
		if o >= 0 {
			count++
		}
	}
	out := make([]BlockID, count)
	for id, o := range order {
		if o >= 0 {
			out[o] = BlockID(id) // #nosec G115 -- id indexes a block
		}
	}
	return out
}

// Reachable marks blocks reachable from entry.
func (g *CFG) Reachable() []bool {
	out := make([]bool, len(g.blocks))
	g.walk(func(id BlockID) { out[id] = true }, func(BlockID) {})
	return out
}
