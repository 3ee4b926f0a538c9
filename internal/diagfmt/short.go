package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"phpflow/internal/diag"
	"phpflow/internal/source"
)

// Short writes one line per diagnostic: path:line: severity CODE message.
// Notes follow their diagnostic as "note" lines when requested. The bag's
// order is kept, so callers sort first.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) error {
	var b strings.Builder
	for _, d := range bag.Items() {
		fmt.Fprintf(&b, "%s:%d: %s %s %s\n",
			formatPath(fs, d.Primary.File, opts.PathMode, opts.BaseDir), d.Primary.Line,
			d.Severity.Label(), d.Code.ID(), sanitizeMessage(d.Message))
		if !opts.IncludeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "%s:%d: note %s %s\n",
				formatPath(fs, n.Span.File, opts.PathMode, opts.BaseDir), n.Span.Line,
				d.Code.ID(), sanitizeMessage(n.Msg))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
