package nlp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
)

// ReadLines lazily creates one document per input line.
func (p *Pipeline) ReadLines(r io.Reader) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			if !yield(p.Document(scanner.Text()), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// ReadJSONL lazily creates one document per JSON line. A line may be a
// bare string or an object with the text under textField; every other
// field of an object lands in the document's metadata.
func (p *Pipeline) ReadJSONL(r io.Reader, textField string) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var raw any
			if err := json.Unmarshal(line, &raw); err != nil {
				if !yield(nil, fmt.Errorf("jsonl line %d: %w", lineNo, err)) {
					return
				}
				continue
			}

			switch v := raw.(type) {
			case string:
				if !yield(p.Document(v), nil) {
					return
				}
			case map[string]any:
				text, ok := v[textField].(string)
				if !ok {
					if !yield(nil, fmt.Errorf("jsonl line %d: field %q missing or not a string", lineNo, textField)) {
						return
					}
					continue
				}
				doc := p.Document(text)
				for key, value := range v {
					if key == textField {
						continue
					}
					doc.SetMeta(key, value)
				}
				if !yield(doc, nil) {
					return
				}
			default:
				if !yield(nil, fmt.Errorf("jsonl line %d: expected string or object", lineNo)) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// WriteJSONL writes one JSON object per document: the text under
// textField plus the listed metadata fields when present.
func (p *Pipeline) WriteJSONL(w io.Writer, docs iter.Seq[*Document], textField string, fields []string) error {
	enc := json.NewEncoder(w)
	for doc := range docs {
		obj := map[string]any{textField: doc.Text()}
		for _, f := range fields {
			if v, ok := doc.Meta(f); ok {
				obj[f] = v
			}
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}
