package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/Alex314/lazy-nlp-pipeline/pkg/morph"
	"github.com/Alex314/lazy-nlp-pipeline/pkg/nlp"
)

func main() {
	patternsPath := flag.String("patterns", "", "YAML patterns file (required)")
	lexiconPath := flag.String("lexicon", "", "lexicon TSV for word patterns (optional)")
	lang := flag.String("lang", "en", "language tag for lexicon readings")
	stemmer := flag.String("stemmer", "", "snowball stemmer language for unknown forms (optional)")
	jsonl := flag.Bool("jsonl", false, "treat input as JSONL instead of plain lines")
	textField := flag.String("text-field", "text", "text field name for JSONL input")
	backward := flag.Bool("backward", false, "match right-to-left")
	flag.Parse()

	if *patternsPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: lazymatch -patterns <file.yaml> [-lexicon <file.tsv>] [-jsonl] [-backward] [input files...]")
		os.Exit(1)
	}

	pipe := nlp.New("lazymatch")

	if *lexiconPath != "" {
		lex, err := morph.NewLexicon(*lexiconPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading lexicon: %v\n", err)
			os.Exit(1)
		}
		defer lex.Close()

		var opts []morph.AnalyzerOption
		if *stemmer != "" {
			opts = append(opts, morph.WithStemmer(*stemmer))
		}
		pipe.RegisterProvider(morph.NewAnalyzer(*lang, lex, opts...))
	}

	names, err := pipe.LoadPatternsFile(*patternsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading patterns: %v\n", err)
		os.Exit(1)
	}
	patterns := make([]nlp.Pattern, len(names))
	for i, name := range names {
		patterns[i], _ = pipe.LookupPattern(name)
	}

	dir := nlp.Forward
	if *backward {
		dir = nlp.Backward
	}

	input, err := openInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input: %v\n", err)
		os.Exit(1)
	}
	defer input.Close()

	docs := collectDocs(pipe, input, *jsonl, *textField)

	spans, err := pipe.MatchPatterns(patterns, docs, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error compiling patterns: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	for span := range spans {
		out := map[string]any{
			"text":  span.Text(),
			"start": span.Start(),
			"end":   span.End(),
		}
		if attrs := span.Attributes(); len(attrs) > 0 {
			out["attributes"] = attrs
		}
		if id, ok := span.Doc().Meta("id"); ok {
			out["doc_id"] = id
		}
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	}
}

// openInput concatenates the given files, or falls back to stdin.
func openInput(paths []string) (io.ReadCloser, error) {
	if len(paths) == 0 {
		return io.NopCloser(os.Stdin), nil
	}
	readers := make([]io.Reader, 0, len(paths))
	closers := make([]io.Closer, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			for _, c := range closers {
				c.Close()
			}
			return nil, err
		}
		readers = append(readers, f)
		closers = append(closers, f)
	}
	return &multiCloser{Reader: io.MultiReader(readers...), closers: closers}, nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// collectDocs adapts the requested reader into a document sequence,
// reporting read errors to stderr as they surface.
func collectDocs(pipe *nlp.Pipeline, r io.Reader, jsonl bool, textField string) iter.Seq[*nlp.Document] {
	var src iter.Seq2[*nlp.Document, error]
	if jsonl {
		src = pipe.ReadJSONL(r, textField)
	} else {
		src = pipe.ReadLines(r)
	}
	return func(yield func(*nlp.Document) bool) {
		for doc, err := range src {
			if err != nil {
				fmt.Fprintf(os.Stderr, "Skipping input: %v\n", err)
				continue
			}
			if !yield(doc) {
				return
			}
		}
	}
}
