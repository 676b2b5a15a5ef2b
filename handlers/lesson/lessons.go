package lesson

import (
	"context"
	"errors"
	"strconv"

	"github.com/Tanveersultana125/co-teacher-backend/services"
	"github.com/Tanveersultana125/co-teacher-backend/services/content"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/middleware"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/Tanveersultana125/co-teacher-backend/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// Tools are the text helpers offered next to the lesson editor.
type Tools interface {
	Summarize(ctx context.Context, text string) content.Document
	Vocabulary(ctx context.Context, text string) content.Document
	MiniQuiz(ctx context.Context, text string) content.Document
}

// TextExtractor reads the text of a stored PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// LessonHandler handles lesson plan requests
type LessonHandler struct {
	lessons   *services.LessonService
	tools     Tools
	extractor TextExtractor
	uploadDir string
	validator *validation.Validator
	log       *logger.Logger
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessons *services.LessonService, tools Tools, extractor TextExtractor, uploadDir string, log *logger.Logger) *LessonHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LessonHandler{
		lessons:   lessons,
		tools:     tools,
		extractor: extractor,
		uploadDir: uploadDir,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// TextRequest is the body of the summarize, vocabulary and mini-quiz tools.
type TextRequest struct {
	Text string `json:"text"`
}

func lessonID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CreateLesson handles POST /api/v1/lessons
func (h *LessonHandler) CreateLesson(c *fiber.Ctx) error {
	var req services.CreateLessonInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	lesson, err := h.lessons.Create(c.UserContext(), teacherID, req)
	if errors.Is(err, services.ErrMissingLessonContext) {
		return response.BadRequest(c, "Invalid subject or topic context")
	}
	if err != nil {
		h.log.Error("failed to create lesson", "teacher_id", teacherID, "error", err)
		return response.InternalServerError(c, "Failed to create lesson")
	}
	return response.Created(c, lesson)
}

// ListLessons handles GET /api/v1/lessons
func (h *LessonHandler) ListLessons(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	lessons, err := h.lessons.List(c.UserContext(), teacherID, c.Query("type"), limit)
	if err != nil {
		h.log.Error("failed to list lessons", "teacher_id", teacherID, "error", err)
		return response.InternalServerError(c, "Failed to fetch lessons")
	}
	return response.Success(c, lessons)
}

// GetLesson handles GET /api/v1/lessons/:id
func (h *LessonHandler) GetLesson(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	id, ok := lessonID(c)
	if !ok {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	lesson, err := h.lessons.Get(c.UserContext(), teacherID, id)
	if errors.Is(err, services.ErrLessonNotFound) {
		return response.NotFound(c, "Lesson not found")
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch lesson")
	}
	return response.Success(c, lesson)
}

// UpdateLesson handles PUT /api/v1/lessons/:id
func (h *LessonHandler) UpdateLesson(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	id, ok := lessonID(c)
	if !ok {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	var req services.UpdateLessonInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	lesson, err := h.lessons.Update(c.UserContext(), teacherID, id, req)
	if errors.Is(err, services.ErrLessonNotFound) {
		return response.NotFound(c, "Lesson not found")
	}
	if err != nil {
		h.log.Error("failed to update lesson", "lesson_id", id, "error", err)
		return response.InternalServerError(c, "Failed to update lesson")
	}
	return response.SuccessWithMessage(c, "Lesson updated successfully", lesson)
}

// DeleteLesson handles DELETE /api/v1/lessons/:id
func (h *LessonHandler) DeleteLesson(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	id, ok := lessonID(c)
	if !ok {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	err := h.lessons.Delete(c.UserContext(), teacherID, id)
	if errors.Is(err, services.ErrLessonNotFound) {
		return response.NotFound(c, "Lesson not found")
	}
	if err != nil {
		h.log.Error("failed to delete lesson", "lesson_id", id, "error", err)
		return response.InternalServerError(c, "Failed to delete lesson")
	}
	return response.NoContent(c)
}

// GeneratePresentation handles POST /api/v1/lessons/presentation
func (h *LessonHandler) GeneratePresentation(c *fiber.Ctx) error {
	var req services.PresentationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	slides, err := h.lessons.CreatePresentation(c.UserContext(), teacherID, req)
	if err != nil {
		h.log.Error("presentation generation failed", "topic", req.Topic, "error", err)
		return response.InternalServerError(c, "Failed to generate presentation")
	}
	return response.Success(c, slides)
}

// Summarize handles POST /api/v1/lessons/summarize
func (h *LessonHandler) Summarize(c *fiber.Ctx) error {
	return h.textTool(c, h.tools.Summarize)
}

// Vocabulary handles POST /api/v1/lessons/vocabulary
func (h *LessonHandler) Vocabulary(c *fiber.Ctx) error {
	return h.textTool(c, h.tools.Vocabulary)
}

// MiniQuiz handles POST /api/v1/lessons/mini-quiz
func (h *LessonHandler) MiniQuiz(c *fiber.Ctx) error {
	return h.textTool(c, h.tools.MiniQuiz)
}

func (h *LessonHandler) textTool(c *fiber.Ctx, run func(context.Context, string) content.Document) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	text := validation.SanitizeString(req.Text)
	if text == "" {
		return response.BadRequest(c, "No text provided")
	}
	return response.Success(c, run(c.UserContext(), text))
}
