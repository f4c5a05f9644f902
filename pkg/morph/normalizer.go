package morph

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizerFunc defines a single normalization step.
type NormalizerFunc func(string) string

// Normalizer folds surface forms for lexicon lookup with a configurable
// pipeline of steps. Folding is only applied to lookups; the engine's
// spans always keep the original document text.
type Normalizer struct {
	steps []NormalizerFunc
}

// NewNormalizer creates a normalizer with the default lookup pipeline.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		steps: []NormalizerFunc{
			NFKCCompose,
			RemoveControlChars,
			Lowercase,
			FoldApostrophes,
		},
	}
}

// NewNormalizerWithSteps creates a normalizer with a custom pipeline.
func NewNormalizerWithSteps(steps ...NormalizerFunc) *Normalizer {
	return &Normalizer{steps: steps}
}

// Normalize applies all configured steps in order.
func (n *Normalizer) Normalize(s string) string {
	for _, step := range n.steps {
		s = step(s)
	}
	return s
}

// NFKCCompose applies Unicode NFKC normalization, composing decomposed
// sequences and folding compatibility variants.
func NFKCCompose(s string) string {
	return norm.NFKC.String(s)
}

// RemoveControlChars removes Unicode control characters.
func RemoveControlChars(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Lowercase converts to lowercase.
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// apostropheReplacements maps apostrophe variants to ASCII.
var apostropheReplacements = map[rune]rune{
	'’': '\'', // ’ right single quote
	'‘': '\'', // ‘ left single quote
	'ʼ': '\'', // ʼ modifier letter apostrophe
	'`': '\'', // ` grave accent
}

// FoldApostrophes converts apostrophe variants to the ASCII apostrophe.
func FoldApostrophes(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if replacement, ok := apostropheReplacements[r]; ok {
			result.WriteRune(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
