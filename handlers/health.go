package handlers

import (
	"context"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/database"
	"github.com/gofiber/fiber/v2"
)

// Pinger is an optional dependency reported by the health check.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

const pingTimeout = 3 * time.Second

// HandleCheckHealth reports whether the service and its database are up.
// The OCR sidecar is only a fallback, so a failing ocr leaves the status 200.
// A nil ocr is reported as disabled.
func HandleCheckHealth(store database.Storage, ocr Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "database": "ok", "ocr": "disabled"}

		if ocr != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
			err := ocr.HealthCheck(ctx)
			cancel()
			if err != nil {
				body["ocr"] = err.Error()
			} else {
				body["ocr"] = "ok"
			}
		}

		if err := store.HealthCheck(); err != nil {
			body["status"] = "unhealthy"
			body["database"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(body)
	}
}
