package api

import (
	"context"
	"errors"

	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/gofiber/fiber/v2"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           *logger.Logger
}

// NewAPIServer creates the Fiber app. bodyLimitMB caps request bodies,
// uploads included.
func NewAPIServer(listenAddress string, bodyLimitMB int, log *logger.Logger) *APIServer {
	if log == nil {
		log = logger.Nop()
	}
	if bodyLimitMB <= 0 {
		bodyLimitMB = 25
	}
	s := &APIServer{listenAddress: listenAddress, log: log}
	s.app = fiber.New(fiber.Config{
		AppName:      "co-teacher-backend",
		BodyLimit:    bodyLimitMB * 1024 * 1024,
		ErrorHandler: s.handleError,
	})
	return s
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Code, fe.Message, "HTTP_ERROR")
	}
	s.log.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return response.InternalServerError(c, "Internal server error")
}

func (s *APIServer) Run() error {
	s.log.Info("starting API server", "address", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *APIServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
