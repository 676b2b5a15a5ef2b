package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/gofiber/fiber/v2"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleVerifier checks Google ID tokens issued for one OAuth client.
type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier returns nil when clientID is empty.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	if clientID == "" {
		return nil
	}
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates the token signature and audience and extracts the identity.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid Google token: %w", err)
	}

	id := &GoogleIdentity{Subject: payload.Subject}
	id.Email, _ = payload.Claims["email"].(string)
	id.Name, _ = payload.Claims["name"].(string)
	id.Picture, _ = payload.Claims["picture"].(string)
	switch verified := payload.Claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = verified
	case string:
		id.EmailVerified = verified == "true"
	}

	if id.Subject == "" || id.Email == "" {
		return nil, errors.New("google token is missing subject or email")
	}
	return id, nil
}

// GoogleLoginRequest carries the ID token from Google Identity Services.
type GoogleLoginRequest struct {
	Credential string `json:"credential"`
	IDToken    string `json:"idToken"`
}

// GoogleLogin signs a teacher in with a Google ID token, creating the
// account on first use or linking it to an existing email.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	if h.google == nil {
		return response.ServiceUnavailable(c, "Google sign-in is not configured")
	}

	var req GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	token := req.Credential
	if token == "" {
		token = req.IDToken
	}
	if token == "" {
		return response.BadRequest(c, "Google credential is required")
	}

	identity, err := h.google.Verify(c.UserContext(), token)
	if err != nil {
		h.log.Warn("google token rejected", "error", err)
		return response.Unauthorized(c, "Invalid Google credential")
	}
	if !identity.EmailVerified {
		return response.Unauthorized(c, "Google email is not verified")
	}

	user, err := h.findOrCreateGoogleUser(c.UserContext(), identity)
	if err != nil {
		h.log.Error("google sign-in failed", "email", identity.Email, "error", err)
		return response.InternalServerError(c, "Failed to sign in with Google")
	}

	return h.issue(c, fiber.StatusOK, user)
}

func (h *AuthHandler) findOrCreateGoogleUser(ctx context.Context, id *GoogleIdentity) (*model.User, error) {
	email := strings.ToLower(id.Email)
	var user model.User

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("google_id = ?", id.Subject).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where("email = ?", email).First(&user).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{"google_id": id.Subject}
			if user.AvatarURL == "" && id.Picture != "" {
				updates["avatar_url"] = id.Picture
			}
			return tx.Model(&user).Updates(updates).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			subject := id.Subject
			name := id.Name
			if name == "" {
				name = email
			}
			user = model.User{
				Email:     email,
				GoogleID:  &subject,
				Name:      name,
				Role:      model.RoleTeacher,
				AvatarURL: id.Picture,
			}
			return tx.Create(&user).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
