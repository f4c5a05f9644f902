package morph

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kljensen/snowball"

	"github.com/Alex314/lazy-nlp-pipeline/pkg/nlp"
)

// CacheSize is the maximum number of entries in the parse cache.
// At ~100 bytes per entry, 100k entries uses approximately 10MB of memory.
const CacheSize = 100_000

// stemScore marks readings produced by the stemmer fallback rather than
// the lexicon.
const stemScore = 0.5

// parse is one cached reading of a normalized form, independent of any
// document span.
type parse struct {
	lemma string
	pos   string
	score float64
}

// Analyzer computes morphological readings of word spans: it is the
// attribute provider behind word-leaf patterns. Lookups fold the span
// text through the normalizer, consult the lexicon and optionally fall
// back to a snowball stemmer for unknown forms. Readings are memoized per
// normalized form in an LRU cache shared across documents, which is safe
// because parsing is pure in the normalized form.
type Analyzer struct {
	lang     string
	lex      *Lexicon
	norm     *Normalizer
	stemLang string
	cache    *lru.Cache[string, []parse]
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithStemmer enables the snowball stemmer fallback for forms the lexicon
// does not know. The language must be one snowball supports.
func WithStemmer(snowballLang string) AnalyzerOption {
	return func(a *Analyzer) { a.stemLang = snowballLang }
}

// WithNormalizer replaces the default lookup normalizer.
func WithNormalizer(n *Normalizer) AnalyzerOption {
	return func(a *Analyzer) { a.norm = n }
}

// NoCache disables parse memoization. Use this when memory is constrained
// or forms are rarely repeated.
func NoCache() AnalyzerOption {
	return func(a *Analyzer) { a.cache = nil }
}

// NewAnalyzer creates an analyzer for one language backed by a lexicon.
func NewAnalyzer(lang string, lex *Lexicon, opts ...AnalyzerOption) *Analyzer {
	cache, _ := lru.New[string, []parse](CacheSize)
	a := &Analyzer{
		lang:  lang,
		lex:   lex,
		norm:  NewNormalizer(),
		cache: cache,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Lang returns the language the analyzer produces readings for.
func (a *Analyzer) Lang() string { return a.lang }

// Attributes implements nlp.Provider.
func (a *Analyzer) Attributes() []string {
	return []string{nlp.AttrWords}
}

// Evaluate implements nlp.Provider: it parses the span text and reports
// every reading as an nlp.Word anchored at the span.
func (a *Analyzer) Evaluate(doc *nlp.Document, start, end int, name string) (any, bool, error) {
	if name != nlp.AttrWords {
		return nil, false, nil
	}
	text := doc.TextRange(start, end)
	parses := a.parses(text)
	if len(parses) == 0 {
		return nil, false, nil
	}
	words := make([]nlp.Word, len(parses))
	for i, p := range parses {
		words[i] = nlp.Word{
			Text:  text,
			Start: start,
			End:   end,
			Lemma: p.lemma,
			POS:   p.pos,
			Lang:  a.lang,
			Score: p.score,
		}
	}
	return words, true, nil
}

// parses returns the readings of a surface form, memoized by its
// normalized spelling.
func (a *Analyzer) parses(text string) []parse {
	form := a.norm.Normalize(text)

	if a.cache == nil {
		return a.parsesUncached(form)
	}

	if result, ok := a.cache.Get(form); ok {
		return result
	}

	result := a.parsesUncached(form)
	a.cache.Add(form, result)
	return result
}

// parsesUncached performs the actual lookup without memoization.
func (a *Analyzer) parsesUncached(form string) []parse {
	entries := a.lex.Lookup(form)
	if len(entries) > 0 {
		parses := make([]parse, len(entries))
		for i, e := range entries {
			parses[i] = parse{lemma: e.Lemma, pos: e.POS, score: 1.0}
		}
		return parses
	}

	if a.stemLang == "" {
		return nil
	}
	stem, err := snowball.Stem(form, a.stemLang, true)
	if err != nil || stem == "" {
		return nil
	}
	return []parse{{lemma: stem, score: stemScore}}
}

// ClearCache clears the memoization cache.
func (a *Analyzer) ClearCache() {
	if a.cache != nil {
		a.cache.Purge()
	}
}

// CacheLen returns the number of cached forms (0 if caching is disabled).
func (a *Analyzer) CacheLen() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.Len()
}

// CacheEnabled reports whether memoization is enabled.
func (a *Analyzer) CacheEnabled() bool {
	return a.cache != nil
}
