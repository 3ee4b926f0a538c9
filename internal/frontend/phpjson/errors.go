package phpjson

import (
	"errors"
	"fmt"
)

// ErrUnknownNodeType reports a node type the analyses have no kind for.
var ErrUnknownNodeType = errors.New("unknown node type")

// DecodeError locates a decoding failure. Path is a JSONPath-like location
// such as $[0].stmts[2].expr.
type DecodeError struct {
	Path     string
	NodeType string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.NodeType != "" {
		return fmt.Sprintf("phpjson: %s (%s): %v", e.Path, e.NodeType, e.Err)
	}
	return fmt.Sprintf("phpjson: %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
