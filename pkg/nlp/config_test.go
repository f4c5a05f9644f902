package nlp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const datePatternsYAML = `
patterns:
  - name: ymd_date
    pattern:
      sequence:
        gap: none
        of:
          - token: {numeric: true, min_len: 4, max_len: 4}
          - token: {text: "-"}
          - token: {numeric: true, min_len: 2, max_len: 2}
          - token: {text: "-"}
          - token: {numeric: true, min_len: 2, max_len: 2}
  - name: date_range
    pattern:
      sequence:
        of:
          - token: {text: "from", fold_case: true}
          - capture:
              name: start
              of: {ref: ymd_date}
          - token: {text: "to", fold_case: true}
          - capture:
              name: end
              of: {ref: ymd_date}
tags:
  - tag: date
    pattern: ymd_date
    confidence: 0.8
  - tag: date_range
    pattern: date_range
`

func TestLoadPatterns(t *testing.T) {
	pipe := New("test_config")

	names, err := pipe.LoadPatterns([]byte(datePatternsYAML))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"ymd_date", "date_range"}; !equalStrings(names, want) {
		t.Fatalf("names = %q, want %q", names, want)
	}

	rng, ok := pipe.LookupPattern("date_range")
	if !ok {
		t.Fatal("date_range not registered")
	}

	spans, err := pipe.Match(rng, pipe.Document("From 2001-01-10 to 2009-01-10"), Forward)
	if err != nil {
		t.Fatal(err)
	}
	var matched []*Span
	for s := range spans {
		matched = append(matched, s)
	}
	if len(matched) != 1 {
		t.Fatalf("got %d matches, want 1", len(matched))
	}
	if got := matched[0].Text(); got != "From 2001-01-10 to 2009-01-10" {
		t.Errorf("matched %q", got)
	}
	if v, _ := matched[0].Attr("start"); v != "2001-01-10" {
		t.Errorf("start capture = %v", v)
	}
	if v, _ := matched[0].Attr("end"); v != "2009-01-10" {
		t.Errorf("end capture = %v", v)
	}
}

func TestLoadPatternsRegistersTags(t *testing.T) {
	pipe := New("test_config")
	if _, err := pipe.LoadPatterns([]byte(datePatternsYAML)); err != nil {
		t.Fatal(err)
	}

	doc := pipe.Document("due 2024-03-01")
	var got []*Span
	for s := range doc.FindTags([]string{"date"}, 0) {
		got = append(got, s)
	}
	if len(got) != 1 || got[0].Text() != "2024-03-01" {
		t.Fatalf("tagged spans = %v", got)
	}
	if conf, _ := got[0].Attr(AttrConfidence); conf != 0.8 {
		t.Errorf("confidence = %v, want 0.8", conf)
	}

	// Omitted confidence defaults to 1.0.
	rng := pipe.Document("from 2024-03-01 to 2024-04-01")
	for s := range rng.FindTags([]string{"date_range"}, 0) {
		if conf, _ := s.Attr(AttrConfidence); conf != 1.0 {
			t.Errorf("default confidence = %v, want 1.0", conf)
		}
	}
}

func TestLoadPatternsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(datePatternsYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	pipe := New("test_config")
	names, err := pipe.LoadPatternsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("loaded %d patterns, want 2", len(names))
	}
}

func TestLoadPatternsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			"unnamed pattern",
			"patterns:\n  - pattern: {token: {text: a}}\n",
			ErrBadPattern,
		},
		{
			"node with two kinds",
			"patterns:\n  - name: p\n    pattern:\n      token: {text: a}\n      word: {lemma: b}\n",
			ErrBadPattern,
		},
		{
			"node with no kind",
			"patterns:\n  - name: p\n    pattern: {}\n",
			ErrBadPattern,
		},
		{
			"unknown ref",
			"patterns:\n  - name: p\n    pattern: {ref: missing}\n",
			ErrUnknownPattern,
		},
		{
			"tag over undeclared pattern",
			"tags:\n  - tag: t\n    pattern: missing\n",
			ErrUnknownPattern,
		},
		{
			"word without provider",
			"patterns:\n  - name: p\n    pattern: {word: {lemma: x}}\n",
			ErrNoProvider,
		},
		{
			"empty sequence",
			"patterns:\n  - name: p\n    pattern: {sequence: {of: []}}\n",
			ErrBadPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipe := New("test_config")
			if _, err := pipe.LoadPatterns([]byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("LoadPatterns error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadPatternsInlineGapAndRepeat(t *testing.T) {
	const src = `
patterns:
  - name: colon_list
    pattern:
      sequence:
        gap_pattern:
          repeat:
            min: 1
            of: {token: {text: ":"}}
        of:
          - token: {numeric: true}
          - token: {numeric: true}
`
	pipe := New("test_config")
	if _, err := pipe.LoadPatterns([]byte(src)); err != nil {
		t.Fatal(err)
	}
	pat, _ := pipe.LookupPattern("colon_list")

	assertPatternCases(t, pipe, pat, []patternCase{
		{"1:2", []string{"1:2"}},
		{"1:::2", []string{"1:::2"}},
		{"1 2", nil},
	})
}
