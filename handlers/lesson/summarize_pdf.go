package lesson

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Tanveersultana125/co-teacher-backend/utils/pdfvalidation"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/Tanveersultana125/co-teacher-backend/utils/upload"
	"github.com/gofiber/fiber/v2"
)

// minSummaryText is the least extracted text worth summarizing.
const minSummaryText = 20

// SummarizePDF handles POST /api/v1/lessons/summarize-pdf. The stored upload
// is removed before the handler returns.
func (h *LessonHandler) SummarizePDF(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		if fh, err = c.FormFile("pdf"); err != nil {
			return response.BadRequest(c, "No PDF file uploaded")
		}
	}

	result, err := pdfvalidation.ValidatePDFFile(fh, pdfvalidation.LessonLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	if !result.Valid {
		return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Failed to read PDF structure", "INVALID_PDF", result.Error)
	}

	path := upload.Path(h.uploadDir, fh.Filename)
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.log.Warn("failed to remove upload", "path", path, "error", err)
		}
	}()
	if err := os.WriteFile(path, result.Content, 0o600); err != nil {
		h.log.Error("failed to store upload", "path", path, "error", err)
		return response.InternalServerError(c, "PDF processing failed")
	}

	text, err := h.extractor.ExtractText(c.UserContext(), path)
	if err != nil {
		h.log.Warn("pdf extraction failed", "filename", fh.Filename, "error", err)
		return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Failed to read PDF structure", "EXTRACTION_FAILED",
			"The PDF might be corrupted, encrypted, or password-protected.")
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minSummaryText {
		return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Failed to read PDF structure", "EMPTY_DOCUMENT",
			"No readable text was found in this PDF.")
	}

	h.log.Info("summarizing pdf", "filename", fh.Filename, "chars", utf8.RuneCountInString(text))
	return response.Success(c, h.tools.Summarize(c.UserContext(), text))
}
