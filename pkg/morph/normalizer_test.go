package morph

import (
	"strings"
	"testing"
)

func TestNormalizeDefaultPipeline(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Wiki", "wiki"},
		{"right single quote", "don’t", "don't"},
		{"modifier apostrophe", "donʼt", "don't"},
		{"grave accent", "don`t", "don't"},
		{"combining acute composed", "café", "café"},
		{"compatibility ligature", "ﬁne", "fine"},
		{"control characters stripped", "a\x00b", "ab"},
		{"unchanged", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizerWithCustomSteps(t *testing.T) {
	n := NewNormalizerWithSteps(Lowercase, func(s string) string {
		return strings.ReplaceAll(s, "-", "")
	})

	if got := n.Normalize("Web-Based"); got != "webbased" {
		t.Errorf("Normalize = %q, want %q", got, "webbased")
	}
}

func TestFoldApostrophes(t *testing.T) {
	if got := FoldApostrophes("‘quoted’"); got != "'quoted'" {
		t.Errorf("FoldApostrophes = %q", got)
	}
}
