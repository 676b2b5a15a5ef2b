package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	pageBanner      = regexp.MustCompile(`(?m)^[ \t]*=+[ \t]*PAGE[ \t]+\d+[ \t]+of[ \t]+\d+[ \t]*=+[ \t]*$`)
	extractionNotes = regexp.MustCompile(`\[(?:Page content unavailable|Failed to extract text|OCR failed[^\]]*)\]`)
	hyphenBreak     = regexp.MustCompile(`(\p{L})-\n(\p{Ll})`)
	spaceRun        = regexp.MustCompile(`[ \t\p{Zs}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans extracted PDF text: NFKC folding, unified line breaks,
// control and replacement characters dropped, extraction markers removed,
// hyphenated line breaks joined and whitespace collapsed. It never fails;
// fully garbled input comes back as an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = pageBanner.ReplaceAllString(text, "")
	text = extractionNotes.ReplaceAllString(text, "")

	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t' || r == '\f' || r == '\v':
			return ' '
		case isArtifactRune(r):
			return -1
		}
		return r
	}, text)

	text = hyphenBreak.ReplaceAllString(text, "$1$2")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// isArtifactRune matches runes that PDF text layers and OCR commonly leak:
// control characters, U+FFFD, private use glyphs and zero-width marks.
func isArtifactRune(r rune) bool {
	switch {
	case r == unicode.ReplacementChar:
		return true
	case r == '\u200b', r == '\u200c', r == '\u200d', r == '\u2060', r == '\ufeff', r == '\u00ad':
		return true
	case unicode.IsControl(r):
		return true
	case unicode.Is(unicode.Co, r):
		return true
	}
	return false
}
