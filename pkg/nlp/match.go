package nlp

import (
	"iter"
	"reflect"
	"strings"
)

// Direction selects the order in which anchor positions are tried and the
// direction the pattern consumes tokens from each anchor.
type Direction int

const (
	// Forward tries anchors left-to-right; patterns extend rightwards.
	Forward Direction = iota
	// Backward tries anchors right-to-left; patterns anchor at their end
	// and extend leftwards. Useful when the cheap discriminating part of
	// a pattern is near its tail.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Match lazily yields every valid match of the compiled pattern in the
// document. The search is pull-driven end-to-end: once the consumer stops
// taking spans, no further backtracking work happens. Identical
// (range, attributes) spans are yielded at most once per anchor position.
func (c *Compiled) Match(doc *Document, dir Direction) iter.Seq[*Span] {
	return func(yield func(*Span) bool) {
		m := &matcher{c: c, doc: doc, fwd: dir == Forward}
		anchors := anchorOffsets(doc)
		if dir == Backward {
			for i, j := 0, len(anchors)-1; i < j; i, j = i+1, j-1 {
				anchors[i], anchors[j] = anchors[j], anchors[i]
			}
		}
		for _, off := range anchors {
			var yielded []*Span
			for span := range seqSpans(m.matchFrom(c.root, doc.At(off))) {
				dup := false
				for _, y := range yielded {
					if y.Equal(span) {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
				yielded = append(yielded, span)
				if !yield(span) {
					return
				}
			}
		}
	}
}

// anchorOffsets lists the admissible start positions: the first token's
// start and every token's end.
func anchorOffsets(doc *Document) []int {
	tokens := doc.Tokens()
	if len(tokens) == 0 {
		return nil
	}
	offs := make([]int, 0, len(tokens)+1)
	offs = append(offs, tokens[0].start)
	for _, t := range tokens {
		offs = append(offs, t.end)
	}
	return offs
}

func seqSpans(seq iter.Seq2[*Span, Position]) iter.Seq[*Span] {
	return func(yield func(*Span) bool) {
		for s := range seq {
			if !yield(s) {
				return
			}
		}
	}
}

// matcher walks one pattern tree over one document in one direction.
type matcher struct {
	c   *Compiled
	doc *Document
	fwd bool
}

// matchFrom attempts the pattern at a position, yielding every viable
// (matched span, continuation position) pair in backtracking order.
func (m *matcher) matchFrom(p Pattern, pos Position) iter.Seq2[*Span, Position] {
	switch p := p.(type) {
	case *TokenPattern:
		return m.matchToken(p, pos)
	case *WordPattern:
		return m.matchWord(p, pos)
	case *SequencePattern:
		return m.matchSeq(p, p.children, pos)
	case *OrPattern:
		return m.matchOr(p, pos)
	case *RepeatPattern:
		return m.matchRepeat(p, pos, nil, p.min, p.max)
	case *CapturePattern:
		return m.matchCapture(p, pos)
	default:
		return func(func(*Span, Position) bool) {}
	}
}

// join concatenates two partial matches in text order relative to the
// matching direction.
func (m *matcher) join(a, b *Span) *Span {
	if m.fwd {
		return concat(a, b)
	}
	return concat(b, a)
}

func (m *matcher) nextToken(pos Position) *Token {
	if m.fwd {
		return pos.TokenAhead()
	}
	return pos.TokenBehind()
}

func (m *matcher) matchToken(p *TokenPattern, pos Position) iter.Seq2[*Span, Position] {
	return func(yield func(*Span, Position) bool) {
		tok := m.nextToken(pos)
		if tok == nil || !tokenGuards(p, tok) {
			return
		}
		next := tok.StartPosition()
		if m.fwd {
			next = tok.EndPosition()
		}
		yield(tok.Span(), next)
	}
}

// tokenGuards checks the cheap predicates of a token leaf. All guards are
// eagerly available token properties, no lazy attribute is touched.
func tokenGuards(p *TokenPattern, tok *Token) bool {
	if p.hasText {
		if p.foldCase {
			if !strings.EqualFold(tok.text, p.text) {
				return false
			}
		} else if tok.text != p.text {
			return false
		}
	}
	if p.isAlpha != nil && tok.isAlpha != *p.isAlpha {
		return false
	}
	if p.isNumeric != nil && tok.isNumeric != *p.isNumeric {
		return false
	}
	if p.isSpace != nil && tok.isSpace != *p.isSpace {
		return false
	}
	if p.minLen >= 0 && tok.Len() < p.minLen {
		return false
	}
	if p.maxLen >= 0 && tok.Len() > p.maxLen {
		return false
	}
	return true
}

func (m *matcher) matchWord(p *WordPattern, pos Position) iter.Seq2[*Span, Position] {
	return func(yield func(*Span, Position) bool) {
		anchor := m.nextToken(pos)
		if anchor == nil {
			return
		}
		for s := range m.doc.WordCandidates(anchor, m.fwd) {
			if !m.wordGuards(p, s) {
				continue
			}
			next := m.doc.At(s.start)
			if m.fwd {
				next = m.doc.At(s.end)
			}
			if !yield(s, next) {
				return
			}
		}
	}
}

// wordGuards checks a word leaf against one candidate span: cheap text
// guards first, morphological and custom lazy attributes only afterwards.
func (m *matcher) wordGuards(p *WordPattern, s *Span) bool {
	if p.hasText {
		if p.foldCase {
			if !strings.EqualFold(s.text, p.text) {
				return false
			}
		} else if s.text != p.text {
			return false
		}
	}
	if p.needsMorph() {
		v, ok, err := m.doc.Attribute(s.start, s.end, AttrWords)
		if err != nil || !ok {
			return false
		}
		words, isWords := v.([]Word)
		if !isWords || !anyWordMatches(p, words) {
			return false
		}
	}
	for _, g := range p.attrs {
		v, ok, err := m.doc.Attribute(s.start, s.end, g.name)
		if err != nil || !ok || !reflect.DeepEqual(v, g.want) {
			return false
		}
	}
	return true
}

func anyWordMatches(p *WordPattern, words []Word) bool {
	for _, w := range words {
		if p.hasLemma && w.Lemma != p.lemma {
			continue
		}
		if p.hasPOS && w.POS != p.pos {
			continue
		}
		if p.hasLang && w.Lang != p.lang {
			continue
		}
		return true
	}
	return false
}

// matchSeq matches the remaining children of a sequence. Every recursion
// level deduplicates the (span, attributes) results it yields, so one
// sequence never returns the same partial parse twice from one position.
func (m *matcher) matchSeq(p *SequencePattern, children []Pattern, pos Position) iter.Seq2[*Span, Position] {
	return func(yield func(*Span, Position) bool) {
		var yielded []*Span
		emit := func(s *Span, next Position) bool {
			for _, y := range yielded {
				if y.Equal(s) {
					return true
				}
			}
			yielded = append(yielded, s)
			return yield(s, next)
		}

		first, rest := children[0], children[1:]
		if !m.fwd {
			first, rest = children[len(children)-1], children[:len(children)-1]
		}
		gap := m.c.gaps[p]

		for matched, next := range m.matchFrom(first, pos) {
			if len(rest) == 0 {
				if !emit(matched, next) {
					return
				}
				continue
			}
			if gap == nil {
				for matchedNext, after := range m.matchSeq(p, rest, next) {
					if !emit(m.join(matched, matchedNext), after) {
						return
					}
				}
				continue
			}
			for gapSpan, afterGap := range m.matchFrom(gap, next) {
				for matchedNext, after := range m.matchSeq(p, rest, afterGap) {
					// A non-empty gap is only admitted between two
					// non-empty neighbour matches.
					if gapSpan.Len() != 0 && (matched.Len() == 0 || matchedNext.Len() == 0) {
						continue
					}
					if !emit(m.join(m.join(matched, gapSpan), matchedNext), after) {
						return
					}
				}
			}
		}
	}
}

func (m *matcher) matchOr(p *OrPattern, pos Position) iter.Seq2[*Span, Position] {
	return func(yield func(*Span, Position) bool) {
		for _, child := range p.children {
			for s, next := range m.matchFrom(child, pos) {
				if !yield(s, next) {
					return
				}
			}
		}
	}
}

// matchRepeat accumulates adjacent repetitions of the child. prev carries
// the span matched so far (nil on the initial call); min and max are the
// repetitions still owed and still allowed. An empty child match makes no
// progress and is never repeated, so zero-width children cannot loop.
func (m *matcher) matchRepeat(p *RepeatPattern, pos Position, prev *Span, min, max int) iter.Seq2[*Span, Position] {
	return func(yield func(*Span, Position) bool) {
		if prev == nil {
			prev = pos.EmptySpan()
		}
		if max == 0 {
			if min == 0 {
				yield(prev, pos)
			}
			return
		}
		for matched, next := range m.matchFrom(p.child, pos) {
			combined := m.join(prev, matched)
			if min <= 1 {
				if !yield(combined, next) {
					return
				}
			}
			if matched.Len() == 0 {
				continue
			}
			localMin := min - 1
			if localMin < 1 {
				localMin = 1
			}
			if max < 0 || max > 1 {
				localMax := max
				if max > 1 {
					localMax = max - 1
				}
				for s, after := range m.matchRepeat(p, next, combined, localMin, localMax) {
					if !yield(s, after) {
						return
					}
				}
			}
		}
		if min == 0 {
			yield(prev, pos)
		}
	}
}

func (m *matcher) matchCapture(p *CapturePattern, pos Position) iter.Seq2[*Span, Position] {
	return func(yield func(*Span, Position) bool) {
		for matched, next := range m.matchFrom(p.child, pos) {
			if !yield(matched.withAttribute(p.name, matched.text), next) {
				return
			}
		}
	}
}
