package nlp

import (
	"fmt"
	"iter"
)

// PatternSpaces is the name of the built-in whitespace gap pattern used
// as the default between sequence children: any number (including zero)
// of tokens consisting entirely of Unicode whitespace.
const PatternSpaces = "SPACES"

// Provider computes named lazy attributes for document spans on demand.
// Implementations must be pure with respect to the span's content and
// safe for concurrent read-only use across independent documents.
type Provider interface {
	// Attributes lists the attribute names this provider can evaluate.
	Attributes() []string
	// Evaluate computes the attribute for the half-open rune span of the
	// document. ok is false when the provider has no value for the span;
	// an error is treated the same way by the matching engine.
	Evaluate(doc *Document, start, end int, name string) (value any, ok bool, err error)
}

// Pipeline is the NLP context: the tokenizer, the attribute provider
// registry and the named pattern and tag-pattern registries. It creates
// documents and drives pattern matching over them.
type Pipeline struct {
	project   string
	tokenizer Tokenizer
	wordRune  func(rune) bool

	providers map[string][]Provider
	patterns  map[string]Pattern
	tagging   map[string][]tagBinding
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithTokenizer replaces the default segmentation.
func WithTokenizer(t Tokenizer) Option {
	return func(p *Pipeline) { p.tokenizer = t }
}

// WithProvider registers an attribute provider for every name it serves.
func WithProvider(prov Provider) Option {
	return func(p *Pipeline) { p.RegisterProvider(prov) }
}

// WithWordRunes replaces the rune class used for word-candidate expansion.
func WithWordRunes(f func(rune) bool) Option {
	return func(p *Pipeline) { p.wordRune = f }
}

// WithPattern pre-registers a named pattern.
func WithPattern(name string, pat Pattern) Option {
	return func(p *Pipeline) { p.RegisterPattern(name, pat) }
}

// New creates a pipeline with the default tokenizer, the default word
// rune class and the built-in SPACES pattern registered.
func New(project string, opts ...Option) *Pipeline {
	p := &Pipeline{
		project:   project,
		tokenizer: DefaultTokenizer{},
		wordRune:  DefaultWordRune,
		providers: make(map[string][]Provider),
		patterns:  make(map[string]Pattern),
		tagging:   make(map[string][]tagBinding),
	}
	p.patterns[PatternSpaces] = ZeroOrMore(TokenOf(Space(true)))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project returns the pipeline's project name.
func (p *Pipeline) Project() string { return p.project }

// RegisterProvider adds an attribute provider under every name it serves.
func (p *Pipeline) RegisterProvider(prov Provider) {
	for _, name := range prov.Attributes() {
		p.providers[name] = append(p.providers[name], prov)
	}
}

// RegisterPattern stores a pattern under a name, replacing any previous
// registration. Named patterns may be used as sequence gaps.
func (p *Pipeline) RegisterPattern(name string, pat Pattern) {
	p.patterns[name] = pat
}

// LookupPattern returns a registered pattern by name.
func (p *Pipeline) LookupPattern(name string) (Pattern, bool) {
	pat, ok := p.patterns[name]
	return pat, ok
}

// Document creates a document from raw text, segmenting it eagerly.
func (p *Pipeline) Document(text string) *Document {
	return newDocument(p, text)
}

// Documents lazily creates one document per text.
func (p *Pipeline) Documents(texts ...string) iter.Seq[*Document] {
	return func(yield func(*Document) bool) {
		for _, t := range texts {
			if !yield(p.Document(t)) {
				return
			}
		}
	}
}

// Match compiles one pattern and returns its lazy match sequence over one
// document.
func (p *Pipeline) Match(pat Pattern, doc *Document, dir Direction) (iter.Seq[*Span], error) {
	compiled, err := p.Compile(pat)
	if err != nil {
		return nil, err
	}
	return compiled.Match(doc, dir), nil
}

// MatchPatterns yields every occurrence of every pattern in every
// document, lazily: documents are pulled and matched one at a time, and
// abandoning the span sequence stops all further search work. Patterns
// are compiled (and configuration errors reported) up front.
func (p *Pipeline) MatchPatterns(patterns []Pattern, docs iter.Seq[*Document], dir Direction) (iter.Seq[*Span], error) {
	compiled := make([]*Compiled, len(patterns))
	for i, pat := range patterns {
		c, err := p.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		compiled[i] = c
	}
	return func(yield func(*Span) bool) {
		for doc := range docs {
			for _, c := range compiled {
				for span := range c.Match(doc, dir) {
					if !yield(span) {
						return
					}
				}
			}
		}
	}, nil
}
