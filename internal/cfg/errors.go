package cfg

import (
	"fmt"

	"phpflow/internal/ast"
)

// UnhandledKindError reports a node the builder has no lowering for.
type UnhandledKindError struct {
	Kind ast.Kind
	Line uint32
}

func (e *UnhandledKindError) Error() string {
	return fmt.Sprintf("cfg: unhandled node kind %s at line %d", e.Kind, e.Line)
}

func fmtLabelError(name string, line uint32) error {
	return fmt.Errorf("cfg: label %q redeclared at line %d", name, line)
}
