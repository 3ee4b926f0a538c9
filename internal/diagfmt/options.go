package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths relative to BaseDir when they are inside it.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string
	Width     int // maximum excerpt width in cells, 0 means unlimited
	ShowNotes bool
}

// ShortOpts configures the one-line-per-diagnostic format.
type ShortOpts struct {
	PathMode     PathMode
	BaseDir      string
	IncludeNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // caps the output, not the Bag
	IncludeNotes bool
}
