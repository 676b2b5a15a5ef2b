package analysis

import (
	"strings"
	"unicode"
)

// DefaultBoundaryWindow is how far back from the target size Split looks for
// a natural break before falling back to a hard cut.
const DefaultBoundaryWindow = 500

// Split cuts text into ordered chunks of at most target runes. Each cut is
// placed at the last paragraph or sentence end inside the boundary window,
// then at the last whitespace, and only then mid-word. Whitespace at cut
// points is trimmed; nothing else is lost or repeated.
func Split(text string, target int) []TextChunk {
	if target <= 0 {
		target = DefaultChunkSize
	}
	window := DefaultBoundaryWindow
	if window > target/2 {
		window = target / 2
	}

	runes := []rune(text)
	n := len(runes)
	var chunks []TextChunk

	start := 0
	for start < n {
		for start < n && unicode.IsSpace(runes[start]) {
			start++
		}
		if start >= n {
			break
		}

		cut := n
		if start+target < n {
			cut = findCut(runes, start, start+target, window)
		}

		if content := strings.TrimSpace(string(runes[start:cut])); content != "" {
			chunks = append(chunks, TextChunk{Index: len(chunks), Content: content})
		}
		start = cut
	}
	return chunks
}

// findCut returns the exclusive end of the chunk starting at start whose
// hard limit is end. runes[end] is always valid here.
func findCut(runes []rune, start, end, window int) int {
	lo := end - window
	if lo <= start {
		lo = start + 1
	}

	for i := end; i > lo; i-- {
		prev := runes[i-1]
		if prev == '\n' || (isSentenceEnd(prev) && unicode.IsSpace(runes[i])) {
			return i
		}
	}
	for i := end; i > lo; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '।', '۔', '。':
		return true
	}
	return false
}
