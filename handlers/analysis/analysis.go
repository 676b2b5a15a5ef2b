package analysis

import (
	"context"
	"mime/multipart"
	"os"

	"github.com/Tanveersultana125/co-teacher-backend/services/analysis"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/pdfvalidation"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/Tanveersultana125/co-teacher-backend/utils/upload"
	"github.com/gofiber/fiber/v2"
)

const missingSummary = "Summary generation failed."

// Analyzer runs the study guide pipeline over a stored document.
type Analyzer interface {
	Analyze(ctx context.Context, doc analysis.Document) (analysis.MergedAnalysis, error)
}

// AnalysisHandler serves PDF study guide analysis.
type AnalysisHandler struct {
	pipeline  Analyzer
	uploadDir string
	debug     bool
	log       *logger.Logger
}

// NewAnalysisHandler creates the handler. debug exposes error detail to
// clients and must only be set in development.
func NewAnalysisHandler(pipeline Analyzer, uploadDir string, debug bool, log *logger.Logger) *AnalysisHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalysisHandler{pipeline: pipeline, uploadDir: uploadDir, debug: debug, log: log}
}

// AnalyzeResponse is the flat success body.
type AnalyzeResponse struct {
	Success   bool                `json:"success"`
	Summary   string              `json:"summary"`
	KeyPoints []string            `json:"key_points"`
	Quiz      []analysis.QuizItem `json:"quiz"`
	IsPartial bool                `json:"is_partial"`
}

// formFile accepts the upload under "pdf" or "file".
func formFile(c *fiber.Ctx) *multipart.FileHeader {
	for _, field := range []string{"pdf", "file"} {
		if fh, err := c.FormFile(field); err == nil {
			return fh
		}
	}
	return nil
}

// AnalyzePDF handles POST /analysis/pdf.
func (h *AnalysisHandler) AnalyzePDF(c *fiber.Ctx) error {
	fh := formFile(c)
	if fh == nil {
		return h.fail(c, analysis.NewError(analysis.KindInput, nil))
	}

	result, err := pdfvalidation.ValidatePDFFile(fh, pdfvalidation.AnalysisLimits)
	if err != nil {
		h.log.Error("failed to read upload", "filename", fh.Filename, "error", err)
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to read uploaded file.", h.detail(err))
	}
	if !result.Valid {
		return response.Fail(c, fiber.StatusUnprocessableEntity, result.Error, "")
	}

	path := upload.Path(h.uploadDir, fh.Filename)
	if err := os.WriteFile(path, result.Content, 0o600); err != nil {
		_ = os.Remove(path)
		h.log.Error("failed to store upload", "path", path, "error", err)
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to store uploaded file.", h.detail(err))
	}

	h.log.Info("analyzing upload", "filename", fh.Filename, "bytes", result.FileSize, "pages", result.PageCount)

	merged, err := h.pipeline.Analyze(c.UserContext(), analysis.Document{Path: path, Filename: fh.Filename})
	if err != nil {
		return h.fail(c, err)
	}

	res := AnalyzeResponse{
		Success:   true,
		Summary:   merged.Summary,
		KeyPoints: merged.KeyPoints,
		Quiz:      merged.Quiz,
		IsPartial: merged.IsPartial,
	}
	if res.Summary == "" {
		res.Summary = missingSummary
	}
	if res.KeyPoints == nil {
		res.KeyPoints = []string{}
	}
	if res.Quiz == nil {
		res.Quiz = []analysis.QuizItem{}
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *AnalysisHandler) fail(c *fiber.Ctx, err error) error {
	if analysis.KindOf(err) != analysis.KindInput {
		h.log.Error("pdf analysis failed", "kind", analysis.KindOf(err), "error", err)
	}
	return response.Fail(c, analysis.StatusOf(err), analysis.MessageOf(err), h.detail(err))
}

func (h *AnalysisHandler) detail(err error) string {
	if !h.debug || err == nil {
		return ""
	}
	return err.Error()
}
