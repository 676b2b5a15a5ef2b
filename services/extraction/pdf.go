package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// sanitizePDF cuts trailing garbage after the last %%EOF marker, which is
// common for PDFs saved from web pages.
func sanitizePDF(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eof := []byte("%%EOF")
	last := bytes.LastIndex(content, eof)
	if last == -1 {
		return content
	}

	end := last + len(eof)
	for end < len(content) && (content[end] == '\n' || content[end] == '\r') {
		end++
	}
	if len(content)-end > 10 {
		return content[:end]
	}
	return content
}

// textLayer reads the embedded text of every page, row by row, falling back
// to plain text for pages whose rows cannot be decoded.
func textLayer(content []byte) (text string, pages int, err error) {
	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, pages, err = "", 0, fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	content = sanitizePDF(content)

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse PDF: %w", err)
	}

	pages = reader.NumPage()
	if pages == 0 {
		return "", 0, fmt.Errorf("PDF has no pages")
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			plain, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				continue
			}
			b.WriteString(plain)
			b.WriteString("\n\n")
			continue
		}

		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			if s := strings.TrimSpace(line.String()); s != "" {
				b.WriteString(s)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()), pages, nil
}
