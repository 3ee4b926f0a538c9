package cfg

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks graph invariants.
// Returns error if any invariant is violated.
func Validate(g *CFG) error {
	if g == nil {
		return nil
	}
	var errs []error

	// 1. entry and exit
	if n := len(g.preds[g.entry]); n != 0 {
		errs = append(errs, fmt.Errorf("bb%d: entry has %d predecessors", g.entry, n))
	}
	if n := len(g.succs[g.exit]); n != 0 {
		errs = append(errs, fmt.Errorf("bb%d: exit has %d successors", g.exit, n))
	}

	// 2. edge targets exist and both maps mirror each other
	if err := validateEdges(g); err != nil {
		errs = append(errs, err)
	}

	// 3. block ids match positions
	for i, b := range g.blocks {
		if int(b.ID) != i {
			errs = append(errs, fmt.Errorf("block at index %d has id bb%d", i, b.ID))
		}
	}
	return errors.Join(errs...)
}

func validateEdges(g *CFG) error {
	var errs []error
	exists := func(id BlockID) bool { return id >= 0 && int(id) < len(g.blocks) }
	for i := range g.blocks {
		id := BlockID(i) // #nosec G115 -- i indexes a block
		for _, s := range g.succs[id] {
			if !exists(s) {
				errs = append(errs, fmt.Errorf("bb%d: successor bb%d does not exist", id, s))
				continue
			}
			if countOf(g.succs[id], s) != countOf(g.preds[s], id) {
				errs = append(errs, fmt.Errorf("bb%d: edge to bb%d missing from predecessors", id, s))
			}
		}
		for _, p := range g.preds[id] {
			if !exists(p) {
				errs = append(errs, fmt.Errorf("bb%d: predecessor bb%d does not exist", id, p))
				continue
			}
			if !slices.Contains(g.succs[p], id) {
				errs = append(errs, fmt.Errorf("bb%d: predecessor bb%d has no edge here", id, p))
			}
		}
	}
	return errors.Join(errs...)
}
