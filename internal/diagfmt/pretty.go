package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"phpflow/internal/diag"
	"phpflow/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Faint),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty writes each diagnostic as a header line followed by the source line
// it points at, when the file holds PHP source:
//
//	path:line: warning DFA1002: variable $x may be undefined ...
//	   12 | echo $x;
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	var b strings.Builder
	for _, d := range bag.Items() {
		fmt.Fprintf(&b, "%s: %s %s\n",
			pal.path.Sprintf("%s:%d", formatPath(fs, d.Primary.File, opts.PathMode, opts.BaseDir), d.Primary.Line),
			pal.severity(d.Severity).Sprintf("%s %s:", d.Severity.Label(), d.Code.ID()),
			sanitizeMessage(d.Message))
		excerpt(&b, pal, fs, d.Primary, opts.Width)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  %s %s\n", pal.note.Sprint("note:"), sanitizeMessage(n.Msg))
			excerpt(&b, pal, fs, n.Span, opts.Width)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func excerpt(b *strings.Builder, pal palette, fs *source.FileSet, sp source.Span, width int) {
	f := fs.Get(sp.File)
	if f == nil || f.Flags&source.FileSyntaxDump != 0 || !sp.Known() {
		return
	}
	text := strings.ReplaceAll(f.Line(sp.Line), "\t", "    ")
	if strings.TrimSpace(text) == "" {
		return
	}
	if width > 0 && runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "...")
	}
	fmt.Fprintf(b, "%s %s\n", pal.gutter.Sprintf("%6d |", sp.Line), text)
}
