// Package phpjson decodes the JSON syntax-tree dump of nikic/PHP-Parser
// (php-parse --json-dump), versions 4 and 5, into an ast.Tree.
package phpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"phpflow/internal/ast"
	"phpflow/internal/source"
)

// Decode reads one dump: a JSON array of top-level statements.
func Decode(r io.Reader, file source.FileID) (*ast.Tree, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	d := &decoder{dec: dec, t: ast.NewTree(file, 0), path: []string{"$"}}
	roots, err := d.list()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, d.fail("", errors.New("trailing data after the statement list"))
	}
	d.t.Root = roots
	return d.t, nil
}

type decoder struct {
	dec  *json.Decoder
	t    *ast.Tree
	path []string
}

func (d *decoder) where() string { return strings.Join(d.path, "") }

func (d *decoder) fail(nodeType string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Path: d.where(), NodeType: nodeType, Err: err}
}

func (d *decoder) push(seg string) { d.path = append(d.path, seg) }
func (d *decoder) pop()            { d.path = d.path[:len(d.path)-1] }

func (d *decoder) delim(want json.Delim) error {
	tok, err := d.dec.Token()
	if err != nil {
		return d.fail("", err)
	}
	if got, ok := tok.(json.Delim); !ok || got != want {
		return d.fail("", fmt.Errorf("expected %q, got %v", want, tok))
	}
	return nil
}

// list decodes an array of nodes; null elements are dropped.
func (d *decoder) list() ([]ast.NodeID, error) {
	if err := d.delim('['); err != nil {
		return nil, err
	}
	var out []ast.NodeID
	for i := 0; d.dec.More(); i++ {
		d.push("[" + strconv.Itoa(i) + "]")
		id, err := d.value()
		d.pop()
		if err != nil {
			return nil, err
		}
		if id.IsValid() {
			out = append(out, id)
		}
	}
	return out, d.delim(']')
}

// value decodes a node object or null.
func (d *decoder) value() (ast.NodeID, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return ast.NoNodeID, d.fail("", err)
	}
	switch tok {
	case nil:
		return ast.NoNodeID, nil
	case json.Delim('{'):
		return d.object()
	}
	return ast.NoNodeID, d.fail("", fmt.Errorf("expected a node, got %v", tok))
}

// object decodes the members of a node whose '{' was consumed. nodeType
// must be the first member, as the dumper writes it.
func (d *decoder) object() (ast.NodeID, error) {
	key, err := d.key()
	if err != nil {
		return ast.NoNodeID, err
	}
	if key != "nodeType" {
		return ast.NoNodeID, d.fail("", fmt.Errorf("first member is %q, want nodeType", key))
	}
	nodeType, err := d.str()
	if err != nil {
		return ast.NoNodeID, err
	}
	k, opName, ok := kindOf(nodeType)
	if !ok {
		return ast.NoNodeID, d.fail(nodeType, ErrUnknownNodeType)
	}
	id := d.t.New(k, 0)
	if opName != "" {
		d.t.SetName(id, opName)
	}
	for d.dec.More() {
		key, err := d.key()
		if err != nil {
			return ast.NoNodeID, err
		}
		d.push("." + key)
		if err := d.member(id, k, key); err != nil {
			return ast.NoNodeID, d.fail(nodeType, err)
		}
		d.pop()
	}
	return id, d.delim('}')
}

func (d *decoder) key() (string, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return "", d.fail("", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", d.fail("", fmt.Errorf("expected a member name, got %v", tok))
	}
	return s, nil
}

func (d *decoder) str() (string, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return "", d.fail("", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", d.fail("", fmt.Errorf("expected a string, got %v", tok))
	}
	return s, nil
}

// member decodes one key of node id. Object and array values go to the
// slot of the same name; scalars carry payload. Anything else is skipped.
func (d *decoder) member(id ast.NodeID, k ast.Kind, key string) error {
	switch key {
	case "attributes":
		return d.attributes(id)
	case "parts":
		if k == ast.NodeName {
			return d.nameParts(id)
		}
	}

	tok, err := d.dec.Token()
	if err != nil {
		return err
	}
	switch tok := tok.(type) {
	case json.Delim:
		slot, ok := ast.SlotByName(key)
		if ok && ast.HasSlot(k, slot) {
			return d.fill(id, slot, tok)
		}
		if key == "name" && tok == '{' {
			// identifier objects name declarations, labels and gotos
			child, err := d.object()
			if err != nil {
				return err
			}
			d.t.Get(id).Name = d.t.Get(child).Name
			return nil
		}
		return d.skipRest(tok)
	case string:
		switch key {
		case "name", "value":
			d.t.SetName(id, tok)
		}
		return nil
	case json.Number:
		if key != "value" {
			return nil
		}
		switch k {
		case ast.ScalarInt:
			v, err := tok.Int64()
			if err != nil {
				// out-of-range literals become floats in PHP
				d.t.SetName(id, tok.String())
				return nil
			}
			d.t.Get(id).Int = v
		default:
			d.t.SetName(id, tok.String())
		}
		return nil
	case bool:
		if !tok {
			return nil
		}
		switch key {
		case "byRef":
			d.t.Get(id).Flags |= ast.FlagByRef
		case "variadic", "unpack":
			d.t.Get(id).Flags |= ast.FlagVariadic
		case "static":
			d.t.Get(id).Flags |= ast.FlagStatic
		}
		return nil
	}
	return nil // null
}

// fill decodes a node or a node list into slot s; open is the consumed
// opening delimiter.
func (d *decoder) fill(id ast.NodeID, s ast.Slot, open json.Delim) error {
	switch open {
	case '{':
		child, err := d.object()
		if err != nil {
			return err
		}
		d.t.Append(id, s, child)
		return nil
	case '[':
		for i := 0; d.dec.More(); i++ {
			d.push("[" + strconv.Itoa(i) + "]")
			child, err := d.value()
			d.pop()
			if err != nil {
				return err
			}
			d.t.Append(id, s, child)
		}
		return d.delim(']')
	}
	return fmt.Errorf("unexpected %v", open)
}

// skipRest consumes the remainder of a value whose opening delimiter was
// already read.
func (d *decoder) skipRest(open json.Delim) error {
	if open != '{' && open != '[' {
		return fmt.Errorf("unexpected %v", open)
	}
	depth := 1
	for depth > 0 {
		tok, err := d.dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			default:
				depth--
			}
		}
	}
	return nil
}

func (d *decoder) attributes(id ast.NodeID) error {
	if err := d.delim('{'); err != nil {
		return err
	}
	n := d.t.Get(id)
	for d.dec.More() {
		key, err := d.key()
		if err != nil {
			return err
		}
		tok, err := d.dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok {
			if err := d.skipRest(delim); err != nil {
				return err
			}
			continue
		}
		num, ok := tok.(json.Number)
		if !ok {
			continue
		}
		switch key {
		case "startLine":
			if n.Line, err = line(num); err != nil {
				return err
			}
		case "endLine":
			if n.EndLine, err = line(num); err != nil {
				return err
			}
		}
	}
	if n.EndLine < n.Line {
		n.EndLine = n.Line
	}
	return d.delim('}')
}

func line(num json.Number) (uint32, error) {
	v, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("line %s: %w", num, err)
	}
	if v < 0 {
		// synthetic nodes carry -1
		return 0, nil
	}
	return safecast.Conv[uint32](v)
}

// nameParts joins the v4 `parts` list of a Name into its text.
func (d *decoder) nameParts(id ast.NodeID) error {
	if err := d.delim('['); err != nil {
		return err
	}
	var parts []string
	for d.dec.More() {
		s, err := d.str()
		if err != nil {
			return err
		}
		parts = append(parts, s)
	}
	d.t.SetName(id, strings.Join(parts, `\`))
	return d.delim(']')
}
