// Package cfgfmt writes control flow graphs as annotated text.
package cfgfmt

import (
	"fmt"
	"io"
	"strings"

	"phpflow/internal/ast"
	"phpflow/internal/cfg"
)

// TermIndex is the statement index passed to annotators for a terminator.
const TermIndex = -1

// Annotator decorates one statement of a block. ok=false leaves no mark.
type Annotator interface {
	Annotate(b *cfg.Block, stmt ast.NodeID, idx int) (string, bool)
}

// Options configures Dump.
type Options struct {
	// Name is printed as the unit header; empty omits it.
	Name       string
	Annotators []Annotator
}

// Dump writes g block by block. Each line is a statement index (T for the
// terminator), its text and the annotations in Options order.
func Dump(w io.Writer, g *cfg.CFG, opts Options) error {
	if w == nil || g == nil {
		return nil
	}
	p := &printer{t: g.Tree, seen: make(map[ast.NodeID]ref)}
	var sb strings.Builder
	if opts.Name != "" {
		fmt.Fprintf(&sb, "fn %s:\n", opts.Name)
	}
	for _, b := range g.Blocks() {
		sb.WriteString("  " + blockHeader(g, b) + ":\n")
		for i, s := range b.Stmts {
			text := p.stmt(s)
			p.seen[s] = ref{block: b.ID, idx: i}
			writeLine(&sb, fmt.Sprintf("%d", i), text, annotate(opts.Annotators, b, s, i))
		}
		if b.Term.IsValid() {
			writeLine(&sb, "T", p.terminator(b.Term), annotate(opts.Annotators, b, b.Term, TermIndex))
		}
		if succs := g.Successors(b.ID); len(succs) > 0 {
			names := make([]string, len(succs))
			for i, s := range succs {
				names[i] = fmt.Sprintf("bb%d", s)
			}
			fmt.Fprintf(&sb, "    -> %s\n", strings.Join(names, " "))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func blockHeader(g *cfg.CFG, b *cfg.Block) string {
	h := fmt.Sprintf("bb%d", b.ID)
	switch b.ID {
	case g.Entry():
		h += " <entry>"
	case g.Exit():
		h += " <exit>"
	}
	if b.Label != "" {
		h += " " + b.Label
	}
	return h
}

func annotate(as []Annotator, b *cfg.Block, stmt ast.NodeID, idx int) []string {
	var out []string
	for _, a := range as {
		if s, ok := a.Annotate(b, stmt, idx); ok {
			out = append(out, s)
		}
	}
	return out
}

func writeLine(sb *strings.Builder, idx, text string, notes []string) {
	fmt.Fprintf(sb, "    %s: %s", idx, text)
	if len(notes) > 0 {
		sb.WriteString("  ; " + strings.Join(notes, " "))
	}
	sb.WriteByte('\n')
}
