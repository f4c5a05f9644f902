package nlp

import "fmt"

// Compiled is a pattern tree validated against one pipeline: construction
// errors are rejected, named gap patterns are resolved and every lazy
// attribute the tree consults is checked to have a registered provider.
// A Compiled pattern may be matched concurrently against independent
// documents of the same pipeline.
type Compiled struct {
	pipe *Pipeline
	root Pattern
	gaps map[*SequencePattern]Pattern
}

// Compile validates a pattern tree for use with this pipeline.
func (pl *Pipeline) Compile(root Pattern) (*Compiled, error) {
	c := &Compiled{
		pipe: pl,
		root: root,
		gaps: make(map[*SequencePattern]Pattern),
	}
	if err := c.check(root); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compiled) check(p Pattern) error {
	switch p := p.(type) {
	case *TokenPattern:
		if p.minLen >= 0 && p.maxLen >= 0 && p.minLen > p.maxLen {
			return fmt.Errorf("%w: token length bounds %d > %d", ErrBadPattern, p.minLen, p.maxLen)
		}
	case *WordPattern:
		if p.needsMorph() {
			if len(c.pipe.providers[AttrWords]) == 0 {
				return fmt.Errorf("%w: attribute %q", ErrNoProvider, AttrWords)
			}
		}
		for _, g := range p.attrs {
			if len(c.pipe.providers[g.name]) == 0 {
				return fmt.Errorf("%w: attribute %q", ErrNoProvider, g.name)
			}
		}
	case *SequencePattern:
		if len(p.children) == 0 {
			return fmt.Errorf("%w: sequence needs at least one subpattern", ErrBadPattern)
		}
		if err := c.resolveGap(p); err != nil {
			return err
		}
		for _, child := range p.children {
			if err := c.check(child); err != nil {
				return err
			}
		}
	case *OrPattern:
		if len(p.children) == 0 {
			return fmt.Errorf("%w: alternation needs at least one subpattern", ErrBadPattern)
		}
		for _, child := range p.children {
			if err := c.check(child); err != nil {
				return err
			}
		}
	case *RepeatPattern:
		if p.min < 0 {
			return fmt.Errorf("%w: repetition minimum %d is negative", ErrBadPattern, p.min)
		}
		if p.max >= 0 && p.min > p.max {
			return fmt.Errorf("%w: repetition bounds %d > %d", ErrBadPattern, p.min, p.max)
		}
		return c.check(p.child)
	case *CapturePattern:
		if p.name == "" {
			return fmt.Errorf("%w: capture needs a name", ErrBadPattern)
		}
		return c.check(p.child)
	default:
		return fmt.Errorf("%w: unknown pattern node %T", ErrBadPattern, p)
	}
	return nil
}

func (c *Compiled) resolveGap(p *SequencePattern) error {
	if p.noGap {
		c.gaps[p] = nil
		return nil
	}
	if p.gap != nil {
		c.gaps[p] = p.gap
		return c.check(p.gap)
	}
	name := p.gapName
	if name == "" {
		name = PatternSpaces
	}
	gap, ok := c.pipe.LookupPattern(name)
	if !ok {
		return fmt.Errorf("%w: gap %q", ErrUnknownPattern, name)
	}
	c.gaps[p] = gap
	return c.check(gap)
}
