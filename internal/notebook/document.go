package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const fieldCells = "cells"

// Document is a parsed notebook. Only the cells are modelled; every other
// top-level field is kept as raw JSON and written back verbatim.
type Document struct {
	root  map[string]json.RawMessage
	Cells []*Cell
}

// Parse reads a notebook from its JSON bytes. The root must be an object
// with a "cells" array whose elements are objects.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("failed to parse notebook: invalid JSON")
		}
		return nil, fmt.Errorf("%w: root is not an object", ErrSchema)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return nil, fmt.Errorf("failed to parse notebook: %w", err)
	}

	rawCells, ok := root[fieldCells]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrSchema, fieldCells)
	}
	rawCells = bytes.TrimSpace(rawCells)
	if len(rawCells) == 0 || rawCells[0] != '[' {
		return nil, fmt.Errorf("%w: %q is not an array", ErrSchema, fieldCells)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawCells, &items); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSchema, fieldCells, err)
	}

	cells := make([]*Cell, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, &CellError{Index: i, Err: fmt.Errorf("%w: cell is not an object", ErrSchema)}
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, &CellError{Index: i, Err: fmt.Errorf("%w: %v", ErrSchema, err)}
		}
		cells[i] = NewCell(fields)
	}

	return &Document{root: root, Cells: cells}, nil
}

// Len returns the number of cells
func (d *Document) Len() int {
	return len(d.Cells)
}

// Field returns a raw top-level field such as "metadata" or "nbformat"
func (d *Document) Field(name string) (json.RawMessage, bool) {
	raw, ok := d.root[name]
	return raw, ok
}

// Marshal serializes the document. A non-empty indent pretty-prints the
// output the way Jupyter does (one space); an empty indent writes it compact.
// Keys are written in sorted order.
func (d *Document) Marshal(indent string) ([]byte, error) {
	cells, err := marshalJSON(d.Cells)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cells: %w", err)
	}

	root := make(map[string]json.RawMessage, len(d.root))
	for k, v := range d.root {
		root[k] = v
	}
	root[fieldCells] = cells

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode notebook: %w", err)
	}

	return buf.Bytes(), nil
}
