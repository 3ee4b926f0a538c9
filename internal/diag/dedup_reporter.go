package diag

import "phpflow/internal/source"

// DedupReporter forwards each (code, severity, span, message) once;
// repeats are dropped along with their notes.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]bool
}

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]bool)}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	k := dedupKey{code, sev, primary, msg}
	if r == nil || r.seen[k] {
		return
	}
	r.seen[k] = true
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
