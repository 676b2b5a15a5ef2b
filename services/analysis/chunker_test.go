package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// squash drops all whitespace so texts can be compared modulo trimming at
// cut points.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func joinChunks(chunks []TextChunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Content)
	}
	return b.String()
}

func TestSplitReconstructsText(t *testing.T) {
	sentence := "The mitochondria is the powerhouse of the cell. "
	inputs := map[string]string{
		"sentences":  strings.Repeat(sentence, 400),
		"no spaces":  strings.Repeat("x", 2500),
		"paragraphs": strings.Repeat("Para line one.\nPara line two\n\n", 300),
		"multibyte":  strings.Repeat("पाठ योजना। ", 700),
		"short":      "just a little text",
	}

	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			chunks := Split(text, 1000)
			if len(chunks) == 0 {
				t.Fatal("no chunks produced")
			}
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
				if l := utf8.RuneCountInString(c.Content); l > 1000 {
					t.Errorf("chunk %d has %d runes, limit 1000", i, l)
				}
				if c.Content != strings.TrimSpace(c.Content) {
					t.Errorf("chunk %d not trimmed", i)
				}
			}
			if got, want := squash(joinChunks(chunks)), squash(text); got != want {
				t.Errorf("round trip mismatch: got %d runes, want %d", len(got), len(want))
			}
		})
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	text := strings.Repeat("a", 90) + ". " + strings.Repeat("b", 50)
	chunks := Split(text, 100)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Content, ".") {
		t.Errorf("first chunk should end at the sentence: %q", chunks[0].Content)
	}
	if chunks[1].Content != strings.Repeat("b", 50) {
		t.Errorf("second chunk = %q", chunks[1].Content)
	}
}

func TestSplitHardCutWithoutBoundary(t *testing.T) {
	chunks := Split(strings.Repeat("z", 250), 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, want := range []int{100, 100, 50} {
		if got := len(chunks[i].Content); got != want {
			t.Errorf("chunk %d length = %d, want %d", i, got, want)
		}
	}
}

func TestSplitEmptyAndWhitespace(t *testing.T) {
	if got := Split("", 100); len(got) != 0 {
		t.Errorf("empty input gave %d chunks", len(got))
	}
	if got := Split(" \n\t ", 100); len(got) != 0 {
		t.Errorf("whitespace input gave %d chunks", len(got))
	}
}

func TestSplitChunkCount(t *testing.T) {
	text := strings.Repeat("word ", 2400) // 12000 runes
	if got := len(Split(text, 1000)); got != 12 {
		t.Errorf("got %d chunks, want 12", got)
	}
}
