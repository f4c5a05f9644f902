package morph

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/vellum"
)

// Entry is one morphological reading of a surface form.
type Entry struct {
	Lemma string
	POS   string
}

// Lexicon maps surface forms to their morphological readings. The TSV
// file (form<TAB>lemma<TAB>pos per line, # for comments) is the source of
// truth; lookups go through an FST built beside it.
type Lexicon struct {
	fst     *vellum.FST
	forms   map[string][]Entry
	table   [][]Entry // FST values index into this, rebuilt with the FST
	fstPath string
	tsvPath string
	mu      sync.RWMutex
}

// NewLexicon loads the lexicon from a TSV file. If no FST file exists
// next to it yet, one is built.
func NewLexicon(tsvPath string) (*Lexicon, error) {
	fstPath := strings.TrimSuffix(tsvPath, ".tsv") + ".fst"

	l := &Lexicon{
		forms:   make(map[string][]Entry, 1024),
		fstPath: fstPath,
		tsvPath: tsvPath,
	}

	if err := l.loadTSV(); err != nil {
		return nil, err
	}

	if err := l.loadOrBuildFST(); err != nil {
		return nil, err
	}

	return l, nil
}

// loadTSV reads entries from the source file.
func (l *Lexicon) loadTSV() error {
	file, err := os.Open(l.tsvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return fmt.Errorf("%s:%d: want form<TAB>lemma[<TAB>pos]", l.tsvPath, lineNo)
		}
		form := strings.ToLower(strings.TrimSpace(fields[0]))
		entry := Entry{Lemma: strings.TrimSpace(fields[1])}
		if len(fields) > 2 {
			entry.POS = strings.TrimSpace(fields[2])
		}
		l.forms[form] = append(l.forms[form], entry)
	}
	return scanner.Err()
}

// loadOrBuildFST opens the existing FST or builds a fresh one. The entry
// table always has to be rebuilt to align with the FST values. An FST that
// is older than the TSV, or whose key count disagrees with it, is stale:
// its ordinals would index the wrong table rows, so it is rebuilt.
func (l *Lexicon) loadOrBuildFST() error {
	if l.fstStale() {
		return l.rebuild()
	}
	fst, err := vellum.Open(l.fstPath)
	if err != nil {
		return l.rebuild()
	}
	if fst.Len() != len(l.forms) {
		fst.Close()
		return l.rebuild()
	}
	l.fst = fst
	l.table = l.buildTable()
	return nil
}

// fstStale reports whether the FST file is missing or older than the TSV
// source it was built from.
func (l *Lexicon) fstStale() bool {
	fstInfo, err := os.Stat(l.fstPath)
	if err != nil {
		return true
	}
	tsvInfo, err := os.Stat(l.tsvPath)
	if err != nil {
		return false
	}
	return tsvInfo.ModTime().After(fstInfo.ModTime())
}

// sortedForms returns all forms in FST insertion order.
func (l *Lexicon) sortedForms() []string {
	forms := make([]string, 0, len(l.forms))
	for form := range l.forms {
		forms = append(forms, form)
	}
	sort.Strings(forms)
	return forms
}

// buildTable aligns the entry table with the sorted form order the FST
// values refer to.
func (l *Lexicon) buildTable() [][]Entry {
	forms := l.sortedForms()
	table := make([][]Entry, len(forms))
	for i, form := range forms {
		table[i] = l.forms[form]
	}
	return table
}

// Lookup returns the readings of a surface form, case-insensitively.
func (l *Lexicon) Lookup(form string) []Entry {
	lower := strings.ToLower(form)

	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, exists, err := l.fst.Get([]byte(lower))
	if err != nil || !exists || idx >= uint64(len(l.table)) {
		return nil
	}
	entries := make([]Entry, len(l.table[idx]))
	copy(entries, l.table[idx])
	return entries
}

// Contains reports whether the form has any reading.
func (l *Lexicon) Contains(form string) bool {
	lower := strings.ToLower(form)

	l.mu.RLock()
	defer l.mu.RUnlock()

	_, exists, _ := l.fst.Get([]byte(lower))
	return exists
}

// Add records a reading for a form and rebuilds the FST.
func (l *Lexicon) Add(form, lemma, pos string) error {
	lower := strings.ToLower(form)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.forms[lower] = append(l.forms[lower], Entry{Lemma: lemma, POS: pos})
	return l.rebuildLocked()
}

// Remove drops every reading of a form and rebuilds the FST.
func (l *Lexicon) Remove(form string) error {
	lower := strings.ToLower(form)

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.forms, lower)
	return l.rebuildLocked()
}

// Rebuild rebuilds the FST from the current entries and persists both the
// FST and the TSV source.
func (l *Lexicon) Rebuild() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rebuildLocked()
}

func (l *Lexicon) rebuild() error {
	return l.rebuildLocked()
}

// rebuildLocked rebuilds without locking (caller must hold the lock). The
// TSV is saved first so the resulting FST file is never older than its
// source.
func (l *Lexicon) rebuildLocked() error {
	if l.fst != nil {
		l.fst.Close()
		l.fst = nil
	}

	if err := l.saveTSV(); err != nil {
		return err
	}

	forms := l.sortedForms()

	fstFile, err := os.Create(l.fstPath)
	if err != nil {
		return err
	}

	builder, err := vellum.New(fstFile, nil)
	if err != nil {
		fstFile.Close()
		return err
	}

	for i, form := range forms {
		if err := builder.Insert([]byte(form), uint64(i)); err != nil {
			builder.Close()
			fstFile.Close()
			return err
		}
	}

	if err := builder.Close(); err != nil {
		fstFile.Close()
		return err
	}
	fstFile.Close()

	fst, err := vellum.Open(l.fstPath)
	if err != nil {
		return err
	}
	l.fst = fst
	l.table = l.buildTable()

	return nil
}

// saveTSV writes the current entries back to the source file.
func (l *Lexicon) saveTSV() error {
	file, err := os.Create(l.tsvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, form := range l.sortedForms() {
		for _, e := range l.forms[form] {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", form, e.Lemma, e.POS); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// FormCount returns the number of distinct surface forms.
func (l *Lexicon) FormCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.forms)
}

// Close releases FST resources.
func (l *Lexicon) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fst != nil {
		err := l.fst.Close()
		l.fst = nil
		return err
	}
	return nil
}
