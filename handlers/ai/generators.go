package ai

import (
	"context"

	"github.com/Tanveersultana125/co-teacher-backend/services/content"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/Tanveersultana125/co-teacher-backend/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// Generator is the part of content.Generator served by this package.
type Generator interface {
	Quiz(ctx context.Context, req content.QuizRequest) content.Document
	Material(ctx context.Context, req content.MaterialRequest) content.Document
	Assignment(ctx context.Context, req content.AssignmentRequest) content.Document
	QuestionPaper(ctx context.Context, req content.QuestionPaperRequest) content.Document
	DataAnalysis(ctx context.Context, csvData, analysisType string) content.Document
}

// AIHandler exposes the standalone teaching material generators.
type AIHandler struct {
	generator Generator
	validator *validation.Validator
	log       *logger.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(generator Generator, log *logger.Logger) *AIHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AIHandler{generator: generator, validator: validation.NewValidator(), log: log}
}

// QuizRequest is the body of POST /api/v1/ai/quiz
type QuizRequest struct {
	Topic        string `json:"topic" validate:"required,max=500"`
	Grade        string `json:"grade"`
	Subject      string `json:"subject"`
	QuestionType string `json:"questionType"`
	BloomLevel   string `json:"bloomLevel"`
	Count        int    `json:"count" validate:"omitempty,gte=1,lte=50"`
}

// MaterialRequest is the body of POST /api/v1/ai/material
type MaterialRequest struct {
	Topic   string `json:"topic" validate:"required,max=500"`
	Type    string `json:"type"`
	Grade   string `json:"grade"`
	Subject string `json:"subject"`
}

// AssignmentRequest is the body of POST /api/v1/ai/assignment
type AssignmentRequest struct {
	Topic      string `json:"topic" validate:"required,max=500"`
	Grade      string `json:"grade"`
	Subject    string `json:"subject"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty"`
	Count      string `json:"count"`
}

// QuestionPaperRequest is the body of POST /api/v1/ai/question-paper
type QuestionPaperRequest struct {
	Subject    string `json:"subject" validate:"required"`
	Grade      string `json:"grade"`
	Marks      int    `json:"marks" validate:"omitempty,gte=1,lte=500"`
	Difficulty string `json:"difficulty"`
	ExamType   string `json:"examType"`
	Syllabus   string `json:"syllabus"`
}

// DataAnalysisRequest is the body of POST /api/v1/ai/data-analysis
type DataAnalysisRequest struct {
	CSVData      string `json:"csvData" validate:"required"`
	AnalysisType string `json:"analysisType"`
}

// bind parses and validates the body into req. It writes the error response
// itself and reports whether the handler should continue.
func (h *AIHandler) bind(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return false, response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	return true, nil
}

// GenerateQuiz handles POST /api/v1/ai/quiz
func (h *AIHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req QuizRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	return response.Success(c, h.generator.Quiz(c.UserContext(), content.QuizRequest{
		Topic:        req.Topic,
		Grade:        req.Grade,
		Subject:      req.Subject,
		QuestionType: req.QuestionType,
		BloomLevel:   req.BloomLevel,
		Count:        req.Count,
	}))
}

// GenerateMaterial handles POST /api/v1/ai/material
func (h *AIHandler) GenerateMaterial(c *fiber.Ctx) error {
	var req MaterialRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	return response.Success(c, h.generator.Material(c.UserContext(), content.MaterialRequest{
		Topic:   req.Topic,
		Type:    req.Type,
		Grade:   req.Grade,
		Subject: req.Subject,
	}))
}

// GenerateAssignment handles POST /api/v1/ai/assignment
func (h *AIHandler) GenerateAssignment(c *fiber.Ctx) error {
	var req AssignmentRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	return response.Success(c, h.generator.Assignment(c.UserContext(), content.AssignmentRequest{
		Topic:      req.Topic,
		Grade:      req.Grade,
		Subject:    req.Subject,
		Type:       req.Type,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	}))
}

// GenerateQuestionPaper handles POST /api/v1/ai/question-paper
func (h *AIHandler) GenerateQuestionPaper(c *fiber.Ctx) error {
	var req QuestionPaperRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	return response.Success(c, h.generator.QuestionPaper(c.UserContext(), content.QuestionPaperRequest{
		Subject:    req.Subject,
		Grade:      req.Grade,
		Marks:      req.Marks,
		Difficulty: req.Difficulty,
		ExamType:   req.ExamType,
		Syllabus:   req.Syllabus,
	}))
}

// AnalyzeData handles POST /api/v1/ai/data-analysis
func (h *AIHandler) AnalyzeData(c *fiber.Ctx) error {
	var req DataAnalysisRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	h.log.Info("analyzing class data", "type", req.AnalysisType, "bytes", len(req.CSVData))
	return response.Success(c, h.generator.DataAnalysis(c.UserContext(), req.CSVData, req.AnalysisType))
}
