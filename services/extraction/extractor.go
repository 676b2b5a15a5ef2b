package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
)

// ErrExtraction wraps every failure to get text out of a document.
var ErrExtraction = errors.New("text extraction failed")

// minTextLayer is the text layer size below which a PDF is treated as a scan.
const minTextLayer = 50

// Extractor reads PDF uploads from disk. The embedded text layer is tried
// first; scans and unparseable files go to OCR when a client is configured.
type Extractor struct {
	ocr *OCRClient
	log *logger.Logger
}

// NewExtractor creates an extractor. ocr may be nil to disable the fallback.
func NewExtractor(ocr *OCRClient, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{ocr: ocr, log: log.With("component", "extraction")}
}

// ExtractText returns the raw text of the PDF at path.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %v", ErrExtraction, err)
	}
	return e.ExtractBytes(ctx, content, filepath.Base(path))
}

// ExtractBytes is ExtractText for content already in memory.
func (e *Extractor) ExtractBytes(ctx context.Context, content []byte, filename string) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrExtraction)
	}

	text, pages, layerErr := textLayer(content)
	if layerErr == nil && utf8.RuneCountInString(text) >= minTextLayer {
		e.log.Debug("text layer extracted", "pages", pages, "chars", utf8.RuneCountInString(text))
		return text, nil
	}

	if e.ocr == nil {
		if layerErr != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, layerErr)
		}
		// Scanned PDF with no OCR available: hand back what there is and let
		// the caller decide whether it is enough.
		return text, nil
	}

	e.log.Info("falling back to OCR", "file", filename, "text_layer_chars", utf8.RuneCountInString(text), "layer_error", layerErr)
	resp, err := e.ocr.ProcessPDF(ctx, content, filename)
	if err != nil {
		if layerErr != nil {
			return "", fmt.Errorf("%w: %v; OCR: %v", ErrExtraction, layerErr, err)
		}
		e.log.Warn("OCR failed, using text layer", "error", err)
		return text, nil
	}
	return resp.Text, nil
}
