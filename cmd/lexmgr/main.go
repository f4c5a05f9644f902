package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Alex314/lazy-nlp-pipeline/pkg/morph"
)

func main() {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}

	lexPath := os.Args[1]
	command := os.Args[2]

	lex, err := morph.NewLexicon(lexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading lexicon: %v\n", err)
		os.Exit(1)
	}
	defer lex.Close()

	switch command {
	case "add":
		if len(os.Args) < 4 {
			fmt.Println("Error: add requires at least one form:lemma[:pos] entry")
			os.Exit(1)
		}
		for _, arg := range os.Args[3:] {
			form, lemma, pos, err := splitEntry(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if err := lex.Add(form, lemma, pos); err != nil {
				fmt.Fprintf(os.Stderr, "Error adding '%s': %v\n", form, err)
				os.Exit(1)
			}
			fmt.Printf("Added: %s\n", form)
		}
		fmt.Printf("Total forms: %d\n", lex.FormCount())

	case "remove":
		if len(os.Args) < 4 {
			fmt.Println("Error: remove requires at least one form")
			os.Exit(1)
		}
		for _, form := range os.Args[3:] {
			if err := lex.Remove(form); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", form, err)
				os.Exit(1)
			}
			fmt.Printf("Removed: %s\n", form)
		}
		fmt.Printf("Total forms: %d\n", lex.FormCount())

	case "lookup":
		if len(os.Args) < 4 {
			fmt.Println("Error: lookup requires a form")
			os.Exit(1)
		}
		form := os.Args[3]
		entries := lex.Lookup(form)
		if len(entries) == 0 {
			fmt.Printf("'%s' NOT in lexicon\n", form)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\n", form, e.Lemma, e.POS)
		}

	case "rebuild":
		if err := lex.Rebuild(); err != nil {
			fmt.Fprintf(os.Stderr, "Error rebuilding FST: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("FST rebuilt. Total forms: %d\n", lex.FormCount())

	case "stats":
		fmt.Printf("Lexicon: %s\n", lexPath)
		fmt.Printf("Form count: %d\n", lex.FormCount())

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// splitEntry parses a form:lemma[:pos] argument.
func splitEntry(arg string) (form, lemma, pos string, err error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("'%s': want form:lemma[:pos]", arg)
	}
	form, lemma = parts[0], parts[1]
	if len(parts) == 3 {
		pos = parts[2]
	}
	return form, lemma, pos, nil
}

func printUsage() {
	fmt.Println("Usage: lexmgr <lexicon.tsv> <command> [args...]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add <form:lemma[:pos]> [...]  Add readings to the lexicon")
	fmt.Println("  remove <form> [form...]       Remove every reading of a form")
	fmt.Println("  lookup <form>                 Print the readings of a form")
	fmt.Println("  rebuild                       Rebuild the FST from the TSV")
	fmt.Println("  stats                         Show lexicon statistics")
}
