package nlp

import (
	"fmt"
	"iter"
	"unicode"
)

// AttrWords is the attribute name under which morphological providers
// publish the parses of a word span.
const AttrWords = "words"

// Word is one morphological reading of a candidate word span.
type Word struct {
	Text  string
	Start int
	End   int
	Lemma string
	POS   string
	Lang  string
	Score float64
}

func (w Word) String() string {
	return fmt.Sprintf("Word(%s)[%d:%d %s %s %s]", w.Text, w.Start, w.End, w.Lemma, w.POS, w.Lang)
}

// DefaultWordRune is the default class of runes a word-eligible token may
// consist of: letters, numbers and the internal punctuation that glues
// compounds together (hyphens, apostrophes, periods).
func DefaultWordRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case '-', '\'', '’', '.':
		return true
	}
	return false
}

// wordEligible reports whether a token may take part in a word candidate.
func (d *Document) wordEligible(t *Token) bool {
	if t.text == "" {
		return false
	}
	for _, r := range t.text {
		if !d.pipe.wordRune(r) {
			return false
		}
	}
	return true
}

// WordCandidates enumerates candidate word spans anchored at the given
// token, shortest first. Forward candidates start at the token and extend
// right, one token at a time, while every covered token consists of word
// runes only; backward candidates end at the token and extend left. The
// sequence is finite, restartable and holds no shared iteration state.
func (d *Document) WordCandidates(anchor *Token, forward bool) iter.Seq[*Span] {
	return func(yield func(*Span) bool) {
		t := anchor
		for t != nil && d.wordEligible(t) {
			var s *Span
			if forward {
				s = newSpan(d, anchor.start, t.end)
				if !yield(s) {
					return
				}
				t = t.Next()
			} else {
				s = newSpan(d, t.start, anchor.end)
				if !yield(s) {
					return
				}
				t = t.Prev()
			}
		}
	}
}
