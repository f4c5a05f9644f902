package nlp

import "unicode"

// Tokenizer segments raw text into non-overlapping, gapless token ranges.
// Offsets are rune offsets into the text. Invoked once per document.
type Tokenizer interface {
	Segment(text string) []TokenRange
}

// TokenRange is a half-open [Start, End) rune range produced by a Tokenizer.
type TokenRange struct {
	Start int
	End   int
}

// Token is the atomic unit of a document's base segmentation. All cheap
// properties are computed eagerly at segmentation time; tokens are never
// mutated afterwards.
type Token struct {
	doc   *Document
	index int

	text  string
	start int
	end   int

	isAlpha   bool
	isNumeric bool
	isSpace   bool
}

// Text returns the raw token text.
func (t *Token) Text() string { return t.text }

// Start returns the token's start rune offset in the document.
func (t *Token) Start() int { return t.start }

// End returns the token's end rune offset in the document.
func (t *Token) End() int { return t.end }

// Len returns the token length in runes.
func (t *Token) Len() int { return t.end - t.start }

// IsAlpha reports whether every rune of the token is a letter.
func (t *Token) IsAlpha() bool { return t.isAlpha }

// IsNumeric reports whether every rune of the token is numeric.
func (t *Token) IsNumeric() bool { return t.isNumeric }

// IsSpace reports whether every rune of the token is whitespace.
func (t *Token) IsSpace() bool { return t.isSpace }

// StartPosition returns the position just before the token.
func (t *Token) StartPosition() Position { return Position{doc: t.doc, off: t.start} }

// EndPosition returns the position just after the token.
func (t *Token) EndPosition() Position { return Position{doc: t.doc, off: t.end} }

// Span returns the token's range as a Span.
func (t *Token) Span() *Span { return newSpan(t.doc, t.start, t.end) }

// Next returns the following token, or nil for the last one.
func (t *Token) Next() *Token {
	if t.index+1 >= len(t.doc.tokens) {
		return nil
	}
	return t.doc.tokens[t.index+1]
}

// Prev returns the preceding token, or nil for the first one.
func (t *Token) Prev() *Token {
	if t.index == 0 {
		return nil
	}
	return t.doc.tokens[t.index-1]
}

// runeClass buckets runes for the default segmentation.
type runeClass int

const (
	classLetter runeClass = iota
	classNumber
	classSpace
	classPunct // single-rune tokens
	classOther // unclassified runs are kept together
)

func classOf(r rune) runeClass {
	switch {
	case unicode.IsLetter(r):
		return classLetter
	case unicode.IsNumber(r):
		return classNumber
	case unicode.IsSpace(r):
		return classSpace
	case r == '.' || r == ',' || r == '?' || r == '!' || r == ':' || r == '"' || r == '\'':
		return classPunct
	default:
		return classOther
	}
}

// DefaultTokenizer splits text into letter runs, number runs, whitespace
// runs, single punctuation marks and runs of any remaining characters.
// The ranges cover the text completely with no gaps.
type DefaultTokenizer struct{}

// Segment implements Tokenizer.
func (DefaultTokenizer) Segment(text string) []TokenRange {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var ranges []TokenRange
	start := 0
	current := classOf(runes[0])

	flush := func(end int) {
		ranges = append(ranges, TokenRange{Start: start, End: end})
		start = end
	}

	for i := 1; i <= len(runes); i++ {
		if i == len(runes) {
			flush(i)
			break
		}
		next := classOf(runes[i])
		// Punctuation marks never merge, even with each other.
		if next != current || current == classPunct {
			flush(i)
			current = next
		}
	}

	return ranges
}

// newToken builds a token with its cheap properties precomputed.
func newToken(doc *Document, index int, r TokenRange) *Token {
	text := string(doc.runes[r.Start:r.End])
	t := &Token{
		doc:       doc,
		index:     index,
		text:      text,
		start:     r.Start,
		end:       r.End,
		isAlpha:   true,
		isNumeric: true,
		isSpace:   true,
	}
	for _, r := range text {
		if !unicode.IsLetter(r) {
			t.isAlpha = false
		}
		if !unicode.IsNumber(r) {
			t.isNumeric = false
		}
		if !unicode.IsSpace(r) {
			t.isSpace = false
		}
	}
	if text == "" {
		t.isAlpha, t.isNumeric, t.isSpace = false, false, false
	}
	return t
}
