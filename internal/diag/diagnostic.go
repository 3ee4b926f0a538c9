package diag

import "phpflow/internal/source"

// Note points at a related location, such as the enclosing function.
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
