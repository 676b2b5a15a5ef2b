package auth

import (
	"github.com/Tanveersultana125/co-teacher-backend/utils/middleware"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/gofiber/fiber/v2"
)

// GetMe returns the authenticated user's profile
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, newUserResponse(user))
}
