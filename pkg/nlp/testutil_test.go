package nlp

import (
	"errors"
	"iter"
	"sort"
	"testing"
)

// stubWords is a test provider mapping span text to morphological
// readings. It counts evaluations per span text.
type stubWords struct {
	words map[string][]Word
	calls map[string]int
	err   error
}

func newStubWords(words map[string][]Word) *stubWords {
	return &stubWords{words: words, calls: make(map[string]int)}
}

func (s *stubWords) Attributes() []string { return []string{AttrWords} }

func (s *stubWords) Evaluate(doc *Document, start, end int, name string) (any, bool, error) {
	text := doc.TextRange(start, end)
	s.calls[text]++
	if s.err != nil {
		return nil, false, s.err
	}
	templates, ok := s.words[text]
	if !ok {
		return nil, false, nil
	}
	out := make([]Word, len(templates))
	for i, w := range templates {
		w.Text = text
		w.Start = start
		w.End = end
		out[i] = w
	}
	return out, true, nil
}

func (s *stubWords) totalCalls() int {
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

var errStubProvider = errors.New("stub provider failure")

func collectTexts(seq iter.Seq[*Span]) []string {
	var out []string
	for s := range seq {
		out = append(out, s.Text())
	}
	return out
}

func collectSpans(seq iter.Seq[*Span]) []*Span {
	var out []*Span
	for s := range seq {
		out = append(out, s)
	}
	return out
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// patternCase pairs a source text with the expected match texts,
// regardless of order.
type patternCase struct {
	src  string
	want []string
}

// assertPatternCases checks a pattern against each case in both matching
// directions; the set of results must not depend on the direction.
func assertPatternCases(t *testing.T, pipe *Pipeline, pattern Pattern, cases []patternCase) {
	t.Helper()
	for _, dir := range []Direction{Forward, Backward} {
		for _, tt := range cases {
			spans, err := pipe.MatchPatterns([]Pattern{pattern}, pipe.Documents(tt.src), dir)
			if err != nil {
				t.Fatalf("MatchPatterns(%q, %v): %v", tt.src, dir, err)
			}
			got := collectTexts(spans)
			if !equalStrings(sortedCopy(got), sortedCopy(tt.want)) {
				t.Errorf("match %q %v: got %q, want %q", tt.src, dir, got, tt.want)
			}
		}
	}
}
