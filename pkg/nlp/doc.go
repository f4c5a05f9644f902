package nlp

import (
	"fmt"
	"sort"
)

// attrKey is the composite cache key for one lazy attribute of one span.
type attrKey struct {
	start int
	end   int
	name  string
}

// attrValue remembers absent results too, so a provider is consulted at
// most once per (span, attribute) pair within a document's lifetime.
type attrValue struct {
	value any
	ok    bool
}

// Document owns an immutable text, its eagerly segmented token sequence,
// a monotonically growing lazy attribute cache and caller metadata.
// A document is not safe for concurrent use; process it from one goroutine.
type Document struct {
	pipe   *Pipeline
	text   string
	runes  []rune
	tokens []*Token

	attrs map[attrKey]attrValue
	meta  map[string]any
	tags  map[string][]*Span
}

func newDocument(pipe *Pipeline, text string) *Document {
	d := &Document{
		pipe:  pipe,
		text:  text,
		runes: []rune(text),
		attrs: make(map[attrKey]attrValue),
	}
	ranges := pipe.tokenizer.Segment(text)
	d.tokens = make([]*Token, len(ranges))
	for i, r := range ranges {
		d.tokens[i] = newToken(d, i, r)
	}
	return d
}

// Text returns the full document text.
func (d *Document) Text() string { return d.text }

// RuneLen returns the document length in runes.
func (d *Document) RuneLen() int { return len(d.runes) }

// TextRange returns the document substring for the half-open rune range.
func (d *Document) TextRange(start, end int) string {
	return string(d.runes[start:end])
}

// Tokens returns the base token sequence, built once at construction.
func (d *Document) Tokens() []*Token { return d.tokens }

// Slice returns a character-level span of this document.
func (d *Document) Slice(start, end int) *Span { return newSpan(d, start, end) }

// At returns the character-level position at the given rune offset.
func (d *Document) At(off int) Position { return Position{doc: d, off: off} }

// SetMeta attaches caller-supplied metadata under the given key.
func (d *Document) SetMeta(key string, value any) {
	if d.meta == nil {
		d.meta = make(map[string]any)
	}
	d.meta[key] = value
}

// Meta returns caller-supplied metadata by key.
func (d *Document) Meta(key string) (any, bool) {
	v, ok := d.meta[key]
	return v, ok
}

// MetaKeys returns all metadata keys in unspecified order.
func (d *Document) MetaKeys() []string {
	keys := make([]string, 0, len(d.meta))
	for k := range d.meta {
		keys = append(keys, k)
	}
	return keys
}

// Attribute returns the lazily computed attribute of the given span,
// consulting registered providers on first access and caching the result
// (including its absence). A missing provider registration is a
// configuration error; a provider failure is reported as absence.
func (d *Document) Attribute(start, end int, name string) (any, bool, error) {
	key := attrKey{start: start, end: end, name: name}
	if cached, hit := d.attrs[key]; hit {
		return cached.value, cached.ok, nil
	}

	providers := d.pipe.providers[name]
	if len(providers) == 0 {
		return nil, false, fmt.Errorf("attribute %q: %w", name, ErrNoProvider)
	}

	value, ok := evalProviders(providers, d, start, end, name)
	d.attrs[key] = attrValue{value: value, ok: ok}
	return value, ok, nil
}

// evalProviders runs every provider registered for the attribute. Word
// lists are concatenated across providers and take precedence over any
// other value type; otherwise the first present result wins, independent
// of registration order. Provider errors count as absence.
func evalProviders(providers []Provider, d *Document, start, end int, name string) (any, bool) {
	var words []Word
	haveWords := false
	var first any
	haveFirst := false
	for _, p := range providers {
		v, ok, err := p.Evaluate(d, start, end, name)
		if err != nil || !ok {
			continue
		}
		if ws, isWords := v.([]Word); isWords {
			words = append(words, ws...)
			haveWords = true
			continue
		}
		if !haveFirst {
			first = v
			haveFirst = true
		}
	}
	if haveWords {
		return words, true
	}
	if haveFirst {
		return first, true
	}
	return nil, false
}

// Tags returns spans recorded by tag-pattern matching, keyed by tag.
func (d *Document) Tags() map[string][]*Span {
	if d.tags == nil {
		d.tags = make(map[string][]*Span)
	}
	return d.tags
}

func (d *Document) String() string {
	text := d.text
	if len(d.runes) > 100 {
		text = string(d.runes[:97]) + "..."
	}
	return fmt.Sprintf("Document(%q)[%s]", text, d.pipe.project)
}

// Position is a character-level position inside a document.
type Position struct {
	doc *Document
	off int
}

// Offset returns the rune offset of the position.
func (p Position) Offset() int { return p.off }

// TokenAhead returns the token starting exactly at this position, or nil.
func (p Position) TokenAhead() *Token {
	tokens := p.doc.tokens
	i := sort.Search(len(tokens), func(i int) bool { return tokens[i].start >= p.off })
	if i < len(tokens) && tokens[i].start == p.off {
		return tokens[i]
	}
	return nil
}

// TokenBehind returns the token ending exactly at this position, or nil.
func (p Position) TokenBehind() *Token {
	tokens := p.doc.tokens
	i := sort.Search(len(tokens), func(i int) bool { return tokens[i].end >= p.off })
	if i < len(tokens) && tokens[i].end == p.off {
		return tokens[i]
	}
	return nil
}

// EmptySpan returns the zero-width span at this position.
func (p Position) EmptySpan() *Span { return newSpan(p.doc, p.off, p.off) }
