package nlp

// Pattern is an immutable, side-effect-free pattern tree node. The same
// tree may be matched concurrently against independent documents. Trees
// are built by the constructors below and walked by a single recursive
// matcher; invalid construction arguments are recorded on the node and
// surfaced by Pipeline.Compile.
type Pattern interface {
	pattern()
}

// TokenPattern matches a single token by its cheap properties.
type TokenPattern struct {
	text     string
	hasText  bool
	foldCase bool

	isAlpha   *bool
	isNumeric *bool
	isSpace   *bool

	minLen int // -1 when unset
	maxLen int // -1 when unset
}

func (*TokenPattern) pattern() {}

// TokenOption configures a TokenPattern.
type TokenOption func(*TokenPattern)

// TokenOf builds a token leaf from the given predicates.
func TokenOf(opts ...TokenOption) *TokenPattern {
	p := &TokenPattern{minLen: -1, maxLen: -1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Term builds a token leaf matching the exact token text.
func Term(text string, opts ...TokenOption) *TokenPattern {
	return TokenOf(append([]TokenOption{withText(text)}, opts...)...)
}

func withText(text string) TokenOption {
	return func(p *TokenPattern) {
		p.text = text
		p.hasText = true
	}
}

// FoldCase makes the text comparison case-insensitive.
func FoldCase() TokenOption {
	return func(p *TokenPattern) { p.foldCase = true }
}

// Alpha requires the token's all-letters flag to equal v.
func Alpha(v bool) TokenOption {
	return func(p *TokenPattern) { p.isAlpha = &v }
}

// Numeric requires the token's all-numeric flag to equal v.
func Numeric(v bool) TokenOption {
	return func(p *TokenPattern) { p.isNumeric = &v }
}

// Space requires the token's all-whitespace flag to equal v.
func Space(v bool) TokenOption {
	return func(p *TokenPattern) { p.isSpace = &v }
}

// MinLen requires at least n runes.
func MinLen(n int) TokenOption {
	return func(p *TokenPattern) { p.minLen = n }
}

// MaxLen requires at most n runes.
func MaxLen(n int) TokenOption {
	return func(p *TokenPattern) { p.maxLen = n }
}

// attrGuard is a lazy attribute equality check on a word span.
type attrGuard struct {
	name string
	want any
}

// WordPattern matches one candidate word span anchored at the current
// token, trying every expansion from shortest to longest. Cheap guards
// (text) are checked before any morphological attribute is computed.
type WordPattern struct {
	text     string
	hasText  bool
	foldCase bool

	lemma    string
	hasLemma bool
	pos      string
	hasPOS   bool
	lang     string
	hasLang  bool

	attrs []attrGuard
}

func (*WordPattern) pattern() {}

// WordOption configures a WordPattern.
type WordOption func(*WordPattern)

// WordOf builds a word leaf from the given predicates.
func WordOf(opts ...WordOption) *WordPattern {
	p := &WordPattern{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lemma requires some morphological reading with the given lemma.
func Lemma(s string) WordOption {
	return func(p *WordPattern) {
		p.lemma = s
		p.hasLemma = true
	}
}

// POS requires some morphological reading with the given part of speech.
func POS(s string) WordOption {
	return func(p *WordPattern) {
		p.pos = s
		p.hasPOS = true
	}
}

// Lang restricts morphological readings to the given language.
func Lang(s string) WordOption {
	return func(p *WordPattern) {
		p.lang = s
		p.hasLang = true
	}
}

// WordText requires the candidate span's exact text.
func WordText(s string) WordOption {
	return func(p *WordPattern) {
		p.text = s
		p.hasText = true
	}
}

// WordFold makes the WordText comparison case-insensitive.
func WordFold() WordOption {
	return func(p *WordPattern) { p.foldCase = true }
}

// Attr requires the lazily computed attribute of the candidate span to
// equal want.
func Attr(name string, want any) WordOption {
	return func(p *WordPattern) {
		p.attrs = append(p.attrs, attrGuard{name: name, want: want})
	}
}

// needsMorph reports whether the word leaf consults morphological parses.
func (p *WordPattern) needsMorph() bool {
	return p.hasLemma || p.hasPOS || p.hasLang
}

// SequencePattern matches its children in order, applying one gap policy
// between every adjacent pair. The policy is not inherited by nested
// sequences. By default the implicit gap is the pipeline's SPACES pattern.
type SequencePattern struct {
	children []Pattern
	gap      Pattern
	gapName  string
	noGap    bool
}

func (*SequencePattern) pattern() {}

// Seq builds a sequence of subpatterns with the default whitespace gap.
func Seq(children ...Pattern) *SequencePattern {
	return &SequencePattern{children: children}
}

// WithGap replaces the implicit gap with the given pattern, matched as-is
// between each adjacent pair. Use a repetition to permit variable-width
// gaps.
func (p *SequencePattern) WithGap(gap Pattern) *SequencePattern {
	p.gap = gap
	p.noGap = false
	p.gapName = ""
	return p
}

// WithNamedGap replaces the implicit gap with a pattern registered on the
// pipeline, resolved at compile time.
func (p *SequencePattern) WithNamedGap(name string) *SequencePattern {
	p.gapName = name
	p.gap = nil
	p.noGap = false
	return p
}

// NoGap forbids any implicit gap: adjacent children must match strictly
// consecutive ranges.
func (p *SequencePattern) NoGap() *SequencePattern {
	p.noGap = true
	p.gap = nil
	p.gapName = ""
	return p
}

// OrPattern matches any of its children; every child is attempted, each
// successful alternative is an independently viable continuation.
type OrPattern struct {
	children []Pattern
}

func (*OrPattern) pattern() {}

// Or builds an alternation over the given subpatterns.
func Or(children ...Pattern) *OrPattern {
	return &OrPattern{children: children}
}

// RepeatPattern matches its child between min and max times. Repetitions
// are strictly adjacent; any gap tolerance comes from the enclosing
// sequence around the repetition as a whole. Zero repetitions produce an
// empty sub-span when min is 0.
type RepeatPattern struct {
	child Pattern
	min   int
	max   int // < 0 means unbounded
}

func (*RepeatPattern) pattern() {}

// Repeat builds a repetition of child matched [min, max] times. A negative
// max means unbounded.
func Repeat(child Pattern, min, max int) *RepeatPattern {
	return &RepeatPattern{child: child, min: min, max: max}
}

// Optional matches child zero or one time.
func Optional(child Pattern) *RepeatPattern { return Repeat(child, 0, 1) }

// ZeroOrMore matches child any number of times, including none.
func ZeroOrMore(child Pattern) *RepeatPattern { return Repeat(child, 0, -1) }

// OneOrMore matches child one or more times.
func OneOrMore(child Pattern) *RepeatPattern { return Repeat(child, 1, -1) }

// CapturePattern records the text matched by its child under a name in
// the final span's attributes.
type CapturePattern struct {
	name  string
	child Pattern
}

func (*CapturePattern) pattern() {}

// Capture names the text matched by child in the resulting span.
func Capture(name string, child Pattern) *CapturePattern {
	return &CapturePattern{name: name, child: child}
}
