package docstring

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrIndexOutOfRange is returned when the replacements handed to Reinsert do
// not line up one-to-one with the spans found in the text.
var ErrIndexOutOfRange = errors.New("span index out of range")

// Span is one delimited block found in a text. Offsets are byte offsets into
// the text the span was found in.
type Span struct {
	Start     int // start of the opening marker
	End       int // end of the closing marker
	BodyStart int
	BodyEnd   int
	Body      string
}

// Matcher locates translatable spans and knows how to wrap a replacement body
// back into its delimiters.
type Matcher interface {
	// Find returns the spans of text, left to right and non-overlapping
	Find(text string) []Span

	// Wrap returns body enclosed in the matcher's delimiters
	Wrap(body string) string
}

// MarkerMatcher matches spans opened and closed by the same marker.
type MarkerMatcher struct {
	marker  string
	pattern *regexp.Regexp
}

// TripleQuote matches Python-style """doc strings""".
var TripleQuote = NewMarkerMatcher(`"""`)

// NewMarkerMatcher creates a matcher for spans delimited by marker on both
// ends. The body is matched non-greedily and may contain newlines.
func NewMarkerMatcher(marker string) *MarkerMatcher {
	quoted := regexp.QuoteMeta(marker)
	return &MarkerMatcher{
		marker:  marker,
		pattern: regexp.MustCompile(`(?s)` + quoted + `(.*?)` + quoted),
	}
}

// Marker returns the delimiter this matcher looks for
func (m *MarkerMatcher) Marker() string {
	return m.marker
}

// Find returns every span in text in document order
func (m *MarkerMatcher) Find(text string) []Span {
	locs := m.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{
			Start:     loc[0],
			End:       loc[1],
			BodyStart: loc[2],
			BodyEnd:   loc[3],
			Body:      text[loc[2]:loc[3]],
		})
	}
	return spans
}

// Wrap encloses body in the marker
func (m *MarkerMatcher) Wrap(body string) string {
	return m.marker + body + m.marker
}

// Extract returns the bodies of all spans in text, in order.
func Extract(m Matcher, text string) []string {
	spans := m.Find(text)
	if len(spans) == 0 {
		return nil
	}

	bodies := make([]string, len(spans))
	for i, s := range spans {
		bodies[i] = s.Body
	}
	return bodies
}

// Reinsert replaces the Nth span of text with the Nth body, wrapped in the
// matcher's delimiters. Everything outside the spans is copied unchanged.
func Reinsert(m Matcher, text string, bodies []string) (string, error) {
	spans := m.Find(text)
	if len(spans) != len(bodies) {
		return "", fmt.Errorf("%w: %d spans, %d replacements", ErrIndexOutOfRange, len(spans), len(bodies))
	}
	if len(spans) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i, s := range spans {
		b.WriteString(text[last:s.Start])
		b.WriteString(m.Wrap(bodies[i]))
		last = s.End
	}
	b.WriteString(text[last:])

	return b.String(), nil
}
