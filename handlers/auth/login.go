package auth

import (
	"strings"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	authutil "github.com/Tanveersultana125/co-teacher-backend/utils/auth"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/Tanveersultana125/co-teacher-backend/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles email and password login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var user model.User
	if err := h.db.WithContext(c.UserContext()).Where("email = ?", req.Email).First(&user).Error; err != nil {
		h.bruteForceProtection.RecordFailedAttempt(c, req.Email)
		return response.Unauthorized(c, "Invalid email or password")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.bruteForceProtection.RecordFailedAttempt(c, req.Email)
		return response.Unauthorized(c, "Invalid email or password")
	}

	h.bruteForceProtection.RecordSuccessfulAttempt(c)

	return h.issue(c, fiber.StatusOK, &user)
}
