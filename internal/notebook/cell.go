package notebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"codeberg.org/snonux/nbtranslate/internal/docstring"
)

const (
	fieldCellType = "cell_type"
	fieldSource   = "source"
)

// CellKind is the translation treatment a cell receives
type CellKind int

const (
	// KindOther cells are left untouched
	KindOther CellKind = iota
	// KindMarkdown cells are translated as a whole
	KindMarkdown
	// KindCode cells have only their doc-string spans translated
	KindCode
)

func (k CellKind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindCode:
		return "code"
	default:
		return "other"
	}
}

// Classify maps a cell_type value to its kind
func Classify(cellType string) CellKind {
	switch cellType {
	case "markdown":
		return KindMarkdown
	case "code":
		return KindCode
	default:
		return KindOther
	}
}

// Cell is one notebook cell. All fields are kept as raw JSON so that
// metadata, outputs and execution counts pass through unchanged.
type Cell struct {
	fields map[string]json.RawMessage
}

// NewCell builds a cell from its raw fields
func NewCell(fields map[string]json.RawMessage) *Cell {
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	return &Cell{fields: fields}
}

// Type returns the cell_type field
func (c *Cell) Type() (string, error) {
	raw, ok := c.fields[fieldCellType]
	if !ok {
		return "", fmt.Errorf("%w: missing field", ErrSchema)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", fmt.Errorf("%w: not a string", ErrSchema)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return s, nil
}

// Source returns the raw source value and whether it is present
func (c *Cell) Source() (json.RawMessage, bool) {
	raw, ok := c.fields[fieldSource]
	return raw, ok
}

// SetSource replaces the raw source value. No other field is ever written.
func (c *Cell) SetSource(raw json.RawMessage) {
	c.fields[fieldSource] = raw
}

// Field returns any raw field of the cell
func (c *Cell) Field(name string) (json.RawMessage, bool) {
	raw, ok := c.fields[name]
	return raw, ok
}

func (c *Cell) MarshalJSON() ([]byte, error) {
	return marshalJSON(c.fields)
}

// Translator is the single operation the dispatcher needs from a provider
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// TranslatorFunc adapts a plain function to Translator
type TranslatorFunc func(ctx context.Context, text string) (string, error)

// Translate calls f
func (f TranslatorFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Result is the outcome of dispatching one cell
type Result struct {
	Kind   CellKind
	Text   string          // translated text, empty for KindOther
	Source json.RawMessage // new source, the original raw value when Text is unchanged, nil for KindOther
}

// Dispatcher decides how each cell is translated and performs it
type Dispatcher struct {
	translator Translator
	matcher    docstring.Matcher
}

// NewDispatcher creates a dispatcher. A nil matcher selects
// docstring.TripleQuote.
func NewDispatcher(translator Translator, matcher docstring.Matcher) *Dispatcher {
	if matcher == nil {
		matcher = docstring.TripleQuote
	}
	return &Dispatcher{
		translator: translator,
		matcher:    matcher,
	}
}

// Process translates one cell and returns the new source without storing
// it. Errors carry the offending field but not the cell index.
func (d *Dispatcher) Process(ctx context.Context, cell *Cell) (Result, error) {
	cellType, err := cell.Type()
	if err != nil {
		return Result{}, &CellError{Field: fieldCellType, Err: err}
	}

	kind := Classify(cellType)
	if kind == KindOther {
		return Result{Kind: kind}, nil
	}

	raw, ok := cell.Source()
	if !ok {
		return Result{}, &CellError{Field: fieldSource, Err: fmt.Errorf("%w: missing field", ErrSchema)}
	}

	text, enc, err := DecodeSource(raw)
	if err != nil {
		return Result{}, &CellError{Field: fieldSource, Err: err}
	}

	var out string
	switch kind {
	case KindMarkdown:
		out, err = d.translate(ctx, text)
	case KindCode:
		out, err = d.translateSpans(ctx, text)
	}
	if err != nil {
		return Result{}, &CellError{Err: err}
	}

	// Unchanged text keeps its original encoding byte for byte
	if out == text {
		return Result{Kind: kind, Text: out, Source: raw}, nil
	}

	source, err := EncodeSource(out, enc)
	if err != nil {
		return Result{}, &CellError{Field: fieldSource, Err: err}
	}

	return Result{Kind: kind, Text: out, Source: source}, nil
}

// translateSpans translates every doc-string of a code cell, one call per
// span and strictly in order, before rebuilding the text.
func (d *Dispatcher) translateSpans(ctx context.Context, text string) (string, error) {
	bodies := docstring.Extract(d.matcher, text)
	if len(bodies) == 0 {
		return text, nil
	}

	translated := make([]string, len(bodies))
	for i, body := range bodies {
		out, err := d.translate(ctx, body)
		if err != nil {
			return "", fmt.Errorf("span %d: %w", i, err)
		}
		translated[i] = out
	}

	return docstring.Reinsert(d.matcher, text, translated)
}

func (d *Dispatcher) translate(ctx context.Context, text string) (string, error) {
	out, err := d.translator.Translate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return out, nil
}
