package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EncodingKind tells how a cell source was stored in the notebook file
type EncodingKind int

const (
	// Joined is a source stored as a single JSON string
	Joined EncodingKind = iota
	// Lines is a source stored as a JSON array of line strings
	Lines
)

func (k EncodingKind) String() string {
	switch k {
	case Joined:
		return "joined"
	case Lines:
		return "lines"
	default:
		return fmt.Sprintf("EncodingKind(%d)", int(k))
	}
}

// Encoding records the physical shape of a source so that translated text
// can be written back the same way. Line boundaries inside a Lines source
// are not remembered: they are re-derived from the newlines of the text
// handed to EncodeSource.
type Encoding struct {
	Kind EncodingKind

	// Terminated is set for Lines sources whose elements keep their own
	// trailing newline, as nbformat writes them ("a\n", "b").
	Terminated bool
}

// DecodeSource turns a raw source value into one text blob and the encoding
// needed to restore it.
func DecodeSource(raw json.RawMessage) (string, Encoding, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", Encoding{}, fmt.Errorf("%w: empty value", ErrMalformedSource)
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", Encoding{}, fmt.Errorf("%w: %v", ErrMalformedSource, err)
		}
		return s, Encoding{Kind: Joined}, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", Encoding{}, fmt.Errorf("%w: %v", ErrMalformedSource, err)
		}

		lines := make([]string, len(items))
		for i, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '"' {
				return "", Encoding{}, fmt.Errorf("%w: line %d is not a string", ErrMalformedSource, i)
			}
			if err := json.Unmarshal(item, &lines[i]); err != nil {
				return "", Encoding{}, fmt.Errorf("%w: line %d: %v", ErrMalformedSource, i, err)
			}
		}

		enc := Encoding{Kind: Lines, Terminated: linesTerminated(lines)}
		if enc.Terminated {
			return strings.Join(lines, ""), enc, nil
		}
		return strings.Join(lines, "\n"), enc, nil

	default:
		return "", Encoding{}, fmt.Errorf("%w: expected string or array, got %s", ErrMalformedSource, describeJSON(raw))
	}
}

// EncodeSource converts text back into a raw source value using enc.
func EncodeSource(text string, enc Encoding) (json.RawMessage, error) {
	if enc.Kind == Joined {
		return marshalJSON(text)
	}

	lines := []string{}
	if text != "" {
		if enc.Terminated {
			lines = strings.SplitAfter(text, "\n")
			if lines[len(lines)-1] == "" {
				lines = lines[:len(lines)-1]
			}
		} else {
			lines = strings.Split(text, "\n")
		}
	}
	return marshalJSON(lines)
}

// linesTerminated reports whether every line but the last ends in a newline,
// with at least one newline present.
func linesTerminated(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines[:len(lines)-1] {
		if !strings.HasSuffix(l, "\n") {
			return false
		}
	}
	return len(lines) > 1 || strings.HasSuffix(lines[0], "\n")
}

func describeJSON(raw json.RawMessage) string {
	switch raw[0] {
	case '{':
		return "object"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// marshalJSON encodes v without HTML escaping so that markdown such as
// <br> or a && b survives byte for byte.
func marshalJSON(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
