package nlp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PatternsFile is the YAML schema for declaring named patterns and tag
// bindings without building trees in code.
type PatternsFile struct {
	Patterns []NamedPatternSpec `yaml:"patterns"`
	Tags     []TagSpec          `yaml:"tags"`
}

// NamedPatternSpec declares one named pattern.
type NamedPatternSpec struct {
	Name    string   `yaml:"name"`
	Pattern NodeSpec `yaml:"pattern"`
}

// TagSpec binds a declared pattern to a tag with a confidence.
type TagSpec struct {
	Tag        string  `yaml:"tag"`
	Pattern    string  `yaml:"pattern"`
	Confidence float64 `yaml:"confidence"`
}

// NodeSpec is one pattern tree node. Exactly one field must be set.
type NodeSpec struct {
	Token    *TokenSpec   `yaml:"token"`
	Word     *WordSpec    `yaml:"word"`
	Sequence *SeqSpec     `yaml:"sequence"`
	AnyOf    []NodeSpec   `yaml:"any_of"`
	Repeat   *RepeatSpec  `yaml:"repeat"`
	Capture  *CaptureSpec `yaml:"capture"`
	Ref      string       `yaml:"ref"`
}

// TokenSpec declares a token leaf.
type TokenSpec struct {
	Text     *string `yaml:"text"`
	FoldCase bool    `yaml:"fold_case"`
	Alpha    *bool   `yaml:"alpha"`
	Numeric  *bool   `yaml:"numeric"`
	Space    *bool   `yaml:"space"`
	MinLen   *int    `yaml:"min_len"`
	MaxLen   *int    `yaml:"max_len"`
}

// WordSpec declares a word leaf.
type WordSpec struct {
	Text     string `yaml:"text"`
	FoldCase bool   `yaml:"fold_case"`
	Lemma    string `yaml:"lemma"`
	POS      string `yaml:"pos"`
	Lang     string `yaml:"lang"`
}

// SeqSpec declares a sequence. Gap is either empty (default whitespace),
// "none", or the name of a declared or registered pattern; GapPattern
// declares an inline gap instead.
type SeqSpec struct {
	Gap        string     `yaml:"gap"`
	GapPattern *NodeSpec  `yaml:"gap_pattern"`
	Of         []NodeSpec `yaml:"of"`
}

// RepeatSpec declares a quantified node. A missing max means unbounded.
type RepeatSpec struct {
	Min int      `yaml:"min"`
	Max *int     `yaml:"max"`
	Of  NodeSpec `yaml:"of"`
}

// CaptureSpec declares a named capture around a node.
type CaptureSpec struct {
	Name string   `yaml:"name"`
	Of   NodeSpec `yaml:"of"`
}

// LoadPatternsFile parses a YAML patterns file and registers every
// declared pattern and tag binding on the pipeline. It returns the
// declared pattern names in file order.
func (p *Pipeline) LoadPatternsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.LoadPatterns(data)
}

// LoadPatterns parses YAML pattern declarations and registers them.
func (p *Pipeline) LoadPatterns(data []byte) ([]string, error) {
	var file PatternsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}

	names := make([]string, 0, len(file.Patterns))
	for _, spec := range file.Patterns {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: pattern declaration needs a name", ErrBadPattern)
		}
		pat, err := p.buildNode(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", spec.Name, err)
		}
		if _, err := p.Compile(pat); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", spec.Name, err)
		}
		p.RegisterPattern(spec.Name, pat)
		names = append(names, spec.Name)
	}

	for _, t := range file.Tags {
		pat, ok := p.LookupPattern(t.Pattern)
		if !ok {
			return nil, fmt.Errorf("tag %q: %w: %q", t.Tag, ErrUnknownPattern, t.Pattern)
		}
		conf := t.Confidence
		if conf == 0 {
			conf = 1.0
		}
		if err := p.AddTagPattern(t.Tag, pat, conf); err != nil {
			return nil, err
		}
	}

	return names, nil
}

func (p *Pipeline) buildNode(spec NodeSpec) (Pattern, error) {
	set := 0
	for _, present := range []bool{
		spec.Token != nil, spec.Word != nil, spec.Sequence != nil,
		len(spec.AnyOf) > 0, spec.Repeat != nil, spec.Capture != nil,
		spec.Ref != "",
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: node must set exactly one of token/word/sequence/any_of/repeat/capture/ref", ErrBadPattern)
	}

	switch {
	case spec.Token != nil:
		return buildTokenNode(spec.Token), nil
	case spec.Word != nil:
		return buildWordNode(spec.Word), nil
	case spec.Sequence != nil:
		return p.buildSeqNode(spec.Sequence)
	case len(spec.AnyOf) > 0:
		children := make([]Pattern, len(spec.AnyOf))
		for i, child := range spec.AnyOf {
			built, err := p.buildNode(child)
			if err != nil {
				return nil, err
			}
			children[i] = built
		}
		return Or(children...), nil
	case spec.Repeat != nil:
		child, err := p.buildNode(spec.Repeat.Of)
		if err != nil {
			return nil, err
		}
		max := -1
		if spec.Repeat.Max != nil {
			max = *spec.Repeat.Max
		}
		return Repeat(child, spec.Repeat.Min, max), nil
	case spec.Capture != nil:
		child, err := p.buildNode(spec.Capture.Of)
		if err != nil {
			return nil, err
		}
		return Capture(spec.Capture.Name, child), nil
	default:
		ref, ok := p.LookupPattern(spec.Ref)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, spec.Ref)
		}
		return ref, nil
	}
}

func buildTokenNode(spec *TokenSpec) *TokenPattern {
	var opts []TokenOption
	if spec.Text != nil {
		opts = append(opts, withText(*spec.Text))
	}
	if spec.FoldCase {
		opts = append(opts, FoldCase())
	}
	if spec.Alpha != nil {
		opts = append(opts, Alpha(*spec.Alpha))
	}
	if spec.Numeric != nil {
		opts = append(opts, Numeric(*spec.Numeric))
	}
	if spec.Space != nil {
		opts = append(opts, Space(*spec.Space))
	}
	if spec.MinLen != nil {
		opts = append(opts, MinLen(*spec.MinLen))
	}
	if spec.MaxLen != nil {
		opts = append(opts, MaxLen(*spec.MaxLen))
	}
	return TokenOf(opts...)
}

func buildWordNode(spec *WordSpec) *WordPattern {
	var opts []WordOption
	if spec.Text != "" {
		opts = append(opts, WordText(spec.Text))
	}
	if spec.FoldCase {
		opts = append(opts, WordFold())
	}
	if spec.Lemma != "" {
		opts = append(opts, Lemma(spec.Lemma))
	}
	if spec.POS != "" {
		opts = append(opts, POS(spec.POS))
	}
	if spec.Lang != "" {
		opts = append(opts, Lang(spec.Lang))
	}
	return WordOf(opts...)
}

func (p *Pipeline) buildSeqNode(spec *SeqSpec) (Pattern, error) {
	if len(spec.Of) == 0 {
		return nil, fmt.Errorf("%w: sequence needs at least one subpattern", ErrBadPattern)
	}
	children := make([]Pattern, len(spec.Of))
	for i, child := range spec.Of {
		built, err := p.buildNode(child)
		if err != nil {
			return nil, err
		}
		children[i] = built
	}
	seq := Seq(children...)
	switch {
	case spec.GapPattern != nil:
		gap, err := p.buildNode(*spec.GapPattern)
		if err != nil {
			return nil, err
		}
		seq.WithGap(gap)
	case spec.Gap == "none":
		seq.NoGap()
	case spec.Gap != "":
		seq.WithNamedGap(spec.Gap)
	}
	return seq, nil
}
