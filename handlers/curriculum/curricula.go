package curriculum

import (
	"github.com/Tanveersultana125/co-teacher-backend/services"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/gofiber/fiber/v2"
)

// CurriculumHandler exposes the board, grade, subject and topic taxonomy.
type CurriculumHandler struct {
	curriculum *services.CurriculumService
	log        *logger.Logger
}

// NewCurriculumHandler creates a new curriculum handler
func NewCurriculumHandler(curriculum *services.CurriculumService, log *logger.Logger) *CurriculumHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CurriculumHandler{curriculum: curriculum, log: log}
}

// ListCurricula handles GET /api/v1/curricula
func (h *CurriculumHandler) ListCurricula(c *fiber.Ctx) error {
	curricula, err := h.curriculum.ListCurricula(c.UserContext())
	if err != nil {
		h.log.Error("failed to list curricula", "error", err)
		return response.InternalServerError(c, "Failed to fetch curricula")
	}
	return response.Success(c, curricula)
}
