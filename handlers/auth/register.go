package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	authutil "github.com/Tanveersultana125/co-teacher-backend/utils/auth"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/middleware"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/Tanveersultana125/co-teacher-backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	bruteForceProtection *middleware.BruteForceProtection
	google               *GoogleVerifier
	validator            *validation.Validator
	log                  *logger.Logger
}

// NewAuthHandler creates a new auth handler. google may be nil, which
// disables Google sign-in.
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection, google *GoogleVerifier, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		bruteForceProtection: bruteForceProtection,
		google:               google,
		validator:            validation.NewValidator(),
		log:                  log,
	}
}

// RegisterRequest represents a teacher registration request
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required,min=2"`
	SchoolName string `json:"schoolName,omitempty" validate:"max=255"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	SchoolName string    `json:"school_name,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AuthResponse is returned by register, login and Google sign-in.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		SchoolName: u.SchoolName,
		AvatarURL:  u.AvatarURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (h *AuthHandler) issue(c *fiber.Ctx, status int, user *model.User) error {
	token, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		h.log.Error("failed to sign access token", "user_id", user.ID, "error", err)
		return response.InternalServerError(c, "Failed to generate access token")
	}

	res := AuthResponse{
		User:        newUserResponse(user),
		AccessToken: token,
		ExpiresIn:   int(h.jwtManager.Expiry().Seconds()),
	}
	if status == fiber.StatusCreated {
		return response.Created(c, res)
	}
	return response.Success(c, res)
}

// Register handles teacher registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = validation.SanitizeString(req.Name)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var existing model.User
	err := h.db.WithContext(c.UserContext()).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return response.Conflict(c, "User with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to check existing user")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Role:         model.RoleTeacher,
		SchoolName:   validation.SanitizeString(req.SchoolName),
	}
	if err := h.db.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		h.log.Error("failed to create user", "email", req.Email, "error", err)
		return response.InternalServerError(c, "Failed to create user")
	}

	return h.issue(c, fiber.StatusCreated, &user)
}
