// Package diag defines the diagnostic model shared by the analyses, the
// driver and the output formatters.
//
// Diagnostic is the central record: a Severity, a stable Code (see codes.go),
// a short Message, the Primary span and optional Notes. Notes should add
// context, such as the line of the assignment that makes a variable only
// maybe defined, rather than repeat the message.
//
// Producers emit through a Reporter, either directly with Report or with a
// ReportBuilder (ReportWarning(...).WithNote(...).Emit()). BagReporter
// collects into a Bag, which supports limits, sorting, deduplication and
// merging. Rendering lives in internal/diagfmt.
//
// Diagnostics are plain data so the driver can cache them on disk.
package diag
