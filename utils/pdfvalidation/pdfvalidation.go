package pdfvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFLimits defines the validation limits for PDF uploads
type PDFLimits struct {
	MaxFileSizeMB    int
	MaxPages         int
	DocumentTypeName string
}

var (
	// AnalysisLimits apply to documents sent through the study guide pipeline.
	AnalysisLimits = PDFLimits{
		MaxFileSizeMB:    20,
		MaxPages:         300,
		DocumentTypeName: "study material",
	}

	// LessonLimits apply to reference PDFs attached to lesson tools.
	LessonLimits = PDFLimits{
		MaxFileSizeMB:    10,
		MaxPages:         100,
		DocumentTypeName: "lesson reference",
	}
)

// ValidationResult contains the result of PDF validation. A PDF whose page
// tree cannot be parsed is still Valid with PageCount 0: extraction decides
// later whether OCR can read it.
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Content   []byte
	Error     string
}

// ValidatePDFFile checks size, extension, header and page count of an upload.
func ValidatePDFFile(file *multipart.FileHeader, limits PDFLimits) (*ValidationResult, error) {
	result := &ValidationResult{FileSize: file.Size}

	if msg := checkSize(file.Size, limits); msg != "" {
		result.Error = msg
		return result, nil
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		result.Error = "Only PDF files are supported"
		return result, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ValidatePDFBytes(content, limits), nil
}

// ValidatePDFBytes validates PDF content already in memory. Uploads are
// checked again here against the bytes actually read.
func ValidatePDFBytes(content []byte, limits PDFLimits) *ValidationResult {
	result := &ValidationResult{FileSize: int64(len(content))}
	if msg := checkSize(result.FileSize, limits); msg != "" {
		result.Error = msg
		return result
	}
	return validateContent(content, limits, result)
}

func checkSize(size int64, limits PDFLimits) string {
	if size == 0 {
		return "Uploaded file is empty"
	}
	if size > int64(limits.MaxFileSizeMB)*1024*1024 {
		return fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
	}
	return ""
}

func validateContent(content []byte, limits PDFLimits, result *ValidationResult) *ValidationResult {
	result.Content = content

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		result.Error = "Invalid PDF file: missing PDF header"
		return result
	}

	if pages, err := pageCount(content); err == nil {
		result.PageCount = pages
		if pages > limits.MaxPages {
			result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages for %s",
				pages, limits.MaxPages, limits.DocumentTypeName)
			return result
		}
	}

	result.Valid = true
	return result
}

func pageCount(content []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return reader.NumPage(), nil
}
