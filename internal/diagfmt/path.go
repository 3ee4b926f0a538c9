package diagfmt

import (
	"path/filepath"
	"strings"

	"phpflow/internal/source"
)

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode, base string) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	p := f.Path
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	case PathModeBasename:
		p = filepath.Base(p)
	case PathModeRelative, PathModeAuto:
		if base == "" {
			break
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			break
		}
		rel, err := filepath.Rel(base, abs)
		if err != nil {
			break
		}
		if mode == PathModeAuto && strings.HasPrefix(rel, "..") {
			break
		}
		p = rel
	}
	return filepath.ToSlash(p)
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
