package nlp

import (
	"fmt"
	"iter"
	"reflect"
)

// Span attribute names used by tag-pattern matching.
const (
	AttrTag        = "tag"
	AttrConfidence = "conf"
)

// tagBinding ties one pattern to a tag with a confidence.
type tagBinding struct {
	compiled   *Compiled
	confidence float64
}

// AddTagPattern registers a pattern whose matches are recorded on
// documents under the given tag with the given confidence.
func (p *Pipeline) AddTagPattern(tag string, pat Pattern, confidence float64) error {
	compiled, err := p.Compile(pat)
	if err != nil {
		return fmt.Errorf("tag %q: %w", tag, err)
	}
	p.tagging[tag] = append(p.tagging[tag], tagBinding{compiled: compiled, confidence: confidence})
	return nil
}

// FindTags matches the registered tag patterns against the document and
// yields every distinct tagged span with confidence at least minConf.
// Found spans are recorded on the document's tag map; a span already
// recorded with a lower confidence is upgraded instead of duplicated.
func (d *Document) FindTags(tags []string, minConf float64) iter.Seq[*Span] {
	return func(yield func(*Span) bool) {
		var yielded []*Span
		for _, tag := range tags {
			for _, binding := range d.pipe.tagging[tag] {
				if binding.confidence < minConf {
					continue
				}
				for span := range binding.compiled.Match(d, Forward) {
					span.SetAttribute(AttrTag, tag)
					span.SetAttribute(AttrConfidence, binding.confidence)
					d.recordTag(tag, span)

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
}

// recordTag stores a tagged span on the document, keeping the maximum
// confidence for spans that are otherwise identical.
func (d *Document) recordTag(tag string, span *Span) {
	tags := d.Tags()
	for _, s := range tags[tag] {
		if sameTagSpan(s, span) {
			prev, _ := s.Attr(AttrConfidence)
			next, _ := span.Attr(AttrConfidence)
			if pf, ok := prev.(float64); ok {
				if nf, ok := next.(float64); ok && nf > pf {
					s.SetAttribute(AttrConfidence, nf)
				}
			}
			return
		}
	}
	tags[tag] = append(tags[tag], span)
}

// sameTagSpan compares two tagged spans ignoring their confidence.
func sameTagSpan(a, b *Span) bool {
	if a.doc != b.doc || a.start != b.start || a.end != b.end {
		return false
	}
	strip := func(s *Span) map[string]any {
		out := s.Attributes()
		delete(out, AttrConfidence)
		return out
	}
	sa, sb := strip(a), strip(b)
	if len(sa) != len(sb) {
		return false
	}
	for k, v := range sa {
		if bv, ok := sb[k]; !ok || !reflect.DeepEqual(bv, v) {
			return false
		}
	}
	return true
}
