package analysis

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"crlf unified", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"spaces collapsed", "a   b\t\tc", "a b c"},
		{"blank lines collapsed", "para one\n\n\n\n\npara two", "para one\n\npara two"},
		{"control chars dropped", "ab\x00c\x07d", "abcd"},
		{"replacement and private use dropped", "te\ufffdxt\ue000 here", "text here"},
		{"zero width dropped", "pho\u200btosyn\ufeffthesis", "photosynthesis"},
		{"page banners removed", "===== PAGE 1 of 2 =====\nIntro text\n===== PAGE 2 of 2 =====\nMore text", "Intro text\n\nMore text"},
		{"extraction notes removed", "Before [Page content unavailable] after [Failed to extract text]", "Before after"},
		{"hyphenated break joined", "photo-\nsynthesis happens", "photosynthesis happens"},
		{"ligature folded", "ﬁle", "file"},
		{"only garbage", "\x00\x01\ufffd\ue001  \n\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := "  Chapter 1\r\n\r\n\r\nThe  cell is the basic unit of life.\x0c\n===== PAGE 3 of 9 =====\n"
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Errorf("second pass changed output:\n%q\n%q", once, twice)
	}
	if strings.Contains(once, "PAGE") {
		t.Errorf("banner survived: %q", once)
	}
}
