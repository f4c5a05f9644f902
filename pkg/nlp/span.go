package nlp

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Span is one successful match result: a half-open rune range of a
// document, its realized text and the attributes (named captures, tag
// metadata) accumulated along the successful branch.
type Span struct {
	doc   *Document
	start int
	end   int
	text  string
	attrs map[string]any
}

func newSpan(doc *Document, start, end int) *Span {
	return &Span{
		doc:   doc,
		start: start,
		end:   end,
		text:  doc.TextRange(start, end),
	}
}

// Doc returns the owning document.
func (s *Span) Doc() *Document { return s.doc }

// Start returns the start rune offset, inclusive.
func (s *Span) Start() int { return s.start }

// End returns the end rune offset, exclusive.
func (s *Span) End() int { return s.end }

// Text returns the matched document substring, gaps included.
func (s *Span) Text() string { return s.text }

// Len returns the span length in runes.
func (s *Span) Len() int { return s.end - s.start }

// Attr returns one span attribute by name.
func (s *Span) Attr(name string) (any, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

// Attributes returns a copy of all span attributes.
func (s *Span) Attributes() map[string]any {
	out := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

// SetAttribute records an attribute on the span, replacing any prior value.
func (s *Span) SetAttribute(name string, value any) {
	if s.attrs == nil {
		s.attrs = make(map[string]any)
	}
	s.attrs[name] = value
}

// withAttribute returns a copy of the span with one extra attribute.
func (s *Span) withAttribute(name string, value any) *Span {
	out := &Span{doc: s.doc, start: s.start, end: s.end, text: s.text}
	out.attrs = make(map[string]any, len(s.attrs)+1)
	for k, v := range s.attrs {
		out.attrs[k] = v
	}
	out.attrs[name] = value
	return out
}

// concat joins two spans that follow each other exactly. Attributes are
// merged; on a name collision the later (right) span wins.
func concat(a, b *Span) *Span {
	if a.doc != b.doc {
		panic("nlp: cannot concatenate spans of different documents")
	}
	if a.end != b.start {
		panic(fmt.Sprintf("nlp: cannot concatenate non-adjacent spans %v and %v", a, b))
	}
	out := newSpan(a.doc, a.start, b.end)
	if len(a.attrs)+len(b.attrs) > 0 {
		out.attrs = make(map[string]any, len(a.attrs)+len(b.attrs))
		for k, v := range a.attrs {
			out.attrs[k] = v
		}
		for k, v := range b.attrs {
			out.attrs[k] = v
		}
	}
	return out
}

// Equal reports whether two spans are the same result: same document,
// same range and equal attributes.
func (s *Span) Equal(o *Span) bool {
	if s.doc != o.doc || s.start != o.start || s.end != o.end {
		return false
	}
	if len(s.attrs) != len(o.attrs) {
		return false
	}
	for k, v := range s.attrs {
		ov, ok := o.attrs[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

func (s *Span) String() string {
	flags := []string{fmt.Sprintf("%d:%d", s.start, s.end)}
	if len(s.attrs) > 0 {
		keys := make([]string, 0, len(s.attrs))
		for k := range s.attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %v", k, s.attrs[k])
		}
		flags = append(flags, "{"+strings.Join(parts, ", ")+"}")
	}
	return fmt.Sprintf("Span(%q)[%s]", s.text, strings.Join(flags, " "))
}
