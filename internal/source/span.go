package source

import "fmt"

// Span locates a node by line range. The syntax trees this tool consumes
// carry line attributes only, so there is no column information.
type Span struct {
	File    FileID
	Line    uint32 // 1-based, 0 means unknown
	EndLine uint32
}

func (s Span) Known() bool { return s.Line != 0 }

func (s Span) String() string {
	if s.EndLine > s.Line {
		return fmt.Sprintf("%d:%d-%d", s.File, s.Line, s.EndLine)
	}
	return fmt.Sprintf("%d:%d", s.File, s.Line)
}

// Cover widens s to include other when both are in the same file.
func (s Span) Cover(other Span) Span {
	if s.File != other.File || !other.Known() {
		return s
	}
	if !s.Known() || other.Line < s.Line {
		s.Line = other.Line
	}
	if other.EndLine > s.EndLine {
		s.EndLine = other.EndLine
	}
	return s
}
