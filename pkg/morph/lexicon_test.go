package morph

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLexiconTSV(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.tsv")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleTSV = `# demo lexicon
was	be	VERB
is	be	VERB
web	web	NOUN
web-based	web-based	ADJ
wind	wind	NOUN
wind	wind	VERB
`

func TestLexiconLookup(t *testing.T) {
	lex, err := NewLexicon(writeLexiconTSV(t, sampleTSV))
	if err != nil {
		t.Fatal(err)
	}
	defer lex.Close()

	tests := []struct {
		form string
		want []Entry
	}{
		{"was", []Entry{{Lemma: "be", POS: "VERB"}}},
		{"WAS", []Entry{{Lemma: "be", POS: "VERB"}}},
		{"web-based", []Entry{{Lemma: "web-based", POS: "ADJ"}}},
		{"wind", []Entry{{Lemma: "wind", POS: "NOUN"}, {Lemma: "wind", POS: "VERB"}}},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			got := lex.Lookup(tt.form)
			if len(got) != len(tt.want) {
				t.Fatalf("Lookup(%q) = %v, want %v", tt.form, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Lookup(%q)[%d] = %v, want %v", tt.form, i, got[i], tt.want[i])
				}
			}
		})
	}

	if !lex.Contains("is") || lex.Contains("nothing") {
		t.Error("Contains disagrees with the source entries")
	}
	if got := lex.FormCount(); got != 5 {
		t.Errorf("FormCount = %d, want 5", got)
	}
}

func TestLexiconAddRemove(t *testing.T) {
	lex, err := NewLexicon(writeLexiconTSV(t, "web\tweb\tNOUN\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer lex.Close()

	if err := lex.Add("Wiki", "wiki", "NOUN"); err != nil {
		t.Fatal(err)
	}
	if got := lex.Lookup("wiki"); len(got) != 1 || got[0].Lemma != "wiki" {
		t.Errorf("Lookup after Add = %v", got)
	}

	if err := lex.Remove("web"); err != nil {
		t.Fatal(err)
	}
	if lex.Contains("web") {
		t.Error("web still present after Remove")
	}
	if got := lex.FormCount(); got != 1 {
		t.Errorf("FormCount = %d, want 1", got)
	}
}

func TestLexiconPersistsAcrossReopen(t *testing.T) {
	path := writeLexiconTSV(t, "web\tweb\tNOUN\n")

	lex, err := NewLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := lex.Add("wiki", "wiki", "NOUN"); err != nil {
		t.Fatal(err)
	}
	if err := lex.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if !reopened.Contains("wiki") || !reopened.Contains("web") {
		t.Error("entries lost across reopen")
	}
	if got := reopened.FormCount(); got != 2 {
		t.Errorf("FormCount = %d, want 2", got)
	}
}

func TestLexiconBuildsMissingFST(t *testing.T) {
	path := writeLexiconTSV(t, "web\tweb\tNOUN\n")

	lex, err := NewLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	defer lex.Close()

	fstPath := filepath.Join(filepath.Dir(path), "lexicon.fst")
	if _, err := os.Stat(fstPath); err != nil {
		t.Errorf("fst file not created: %v", err)
	}
}

func TestLexiconRebuildsStaleFST(t *testing.T) {
	path := writeLexiconTSV(t, "walk\twalk\tVERB\n")

	lex, err := NewLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := lex.Close(); err != nil {
		t.Fatal(err)
	}

	// Rewrite the TSV behind the lexicon's back, prepending a lexically
	// smaller form: a reused FST would hand out shifted ordinals.
	if err := os.WriteFile(path, []byte("go\tgo\tVERB\nwalk\twalk\tVERB\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if got := reopened.Lookup("walk"); len(got) != 1 || got[0].Lemma != "walk" {
		t.Errorf("Lookup(walk) = %v, want lemma walk", got)
	}
	if got := reopened.Lookup("go"); len(got) != 1 || got[0].Lemma != "go" {
		t.Errorf("Lookup(go) = %v, want lemma go", got)
	}
	if got := reopened.FormCount(); got != 2 {
		t.Errorf("FormCount = %d, want 2", got)
	}
}

func TestLexiconRebuildsOnNewerTSV(t *testing.T) {
	path := writeLexiconTSV(t, "walk\twalk\tVERB\n")

	lex, err := NewLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := lex.Close(); err != nil {
		t.Fatal(err)
	}

	// Same form count, different content; the newer mtime alone must
	// trigger the rebuild.
	if err := os.WriteFile(path, []byte("run\trun\tVERB\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewLexicon(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if !reopened.Contains("run") || reopened.Contains("walk") {
		t.Error("reopened lexicon still serves the stale FST contents")
	}
}

func TestLexiconRejectsMalformedLine(t *testing.T) {
	path := writeLexiconTSV(t, "justoneword\n")
	if _, err := NewLexicon(path); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestLexiconLookupReturnsCopy(t *testing.T) {
	lex, err := NewLexicon(writeLexiconTSV(t, "web\tweb\tNOUN\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer lex.Close()

	first := lex.Lookup("web")
	first[0].Lemma = "mutated"
	if got := lex.Lookup("web"); got[0].Lemma != "web" {
		t.Errorf("lexicon entry mutated through Lookup result: %v", got)
	}
}
