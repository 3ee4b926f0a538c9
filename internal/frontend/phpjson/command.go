package phpjson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"phpflow/internal/ast"
	"phpflow/internal/source"
)

// Command is an external parser printing a JSON dump on stdout, e.g.
// php vendor/bin/php-parse --json-dump. The file path replaces a "{}"
// argument, or is appended when there is none.
type Command struct {
	Argv []string
}

func (c Command) args(path string) []string {
	out := make([]string, 0, len(c.Argv)+1)
	replaced := false
	for _, a := range c.Argv {
		if a == "{}" {
			a, replaced = path, true
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, path)
	}
	return out
}

// Parse runs the command on path and decodes its output as it streams.
func (c Command) Parse(ctx context.Context, path string, file source.FileID) (*ast.Tree, error) {
	if len(c.Argv) == 0 {
		return nil, errors.New("phpjson: no frontend command configured")
	}
	argv := c.args(path)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("phpjson: frontend %s: %w", argv[0], err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("phpjson: frontend %s: %w", argv[0], err)
	}
	tree, decErr := Decode(out, file)
	if decErr != nil {
		// let the process finish writing before Wait closes the pipe
		_, _ = io.Copy(io.Discard, out)
	}
	if waitErr := cmd.Wait(); waitErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("phpjson: frontend %s: %w", argv[0], waitErr)
		}
		return nil, fmt.Errorf("phpjson: frontend %s: %w: %s", argv[0], waitErr, msg)
	}
	if decErr != nil {
		return nil, decErr
	}
	return tree, nil
}
