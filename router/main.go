package router

import (
	"github.com/Tanveersultana125/co-teacher-backend/database"
	"github.com/Tanveersultana125/co-teacher-backend/handlers"
	ai_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/ai"
	analysis_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/analysis"
	auth_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/auth"
	curriculum_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/curriculum"
	dashboard_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/dashboard"
	lesson_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/lesson"
	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers is everything SetupRoutes mounts. app.SetupAndRunServer builds it.
type Handlers struct {
	Store      database.Storage
	OCR        handlers.Pinger
	Metrics    prometheus.Gatherer
	Security   middleware.SecurityConfig
	Auth       *middleware.AuthMiddleware
	BruteForce *middleware.BruteForceProtection

	AuthHandler       *auth_handlers.AuthHandler
	AnalysisHandler   *analysis_handlers.AnalysisHandler
	LessonHandler     *lesson_handlers.LessonHandler
	AIHandler         *ai_handlers.AIHandler
	DashboardHandler  *dashboard_handlers.DashboardHandler
	CurriculumHandler *curriculum_handlers.CurriculumHandler
}

func SetupRoutes(app *fiber.App, h Handlers) {
	security := h.Security
	security.SkipRateLimit = append(security.SkipRateLimit, "/ping", "/metrics")
	middleware.SetupSecurity(app, security)

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(h.Store, h.OCR))
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{})))
	}

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.AuthHandler.Register)
	authGroup.Post("/login", h.BruteForce.CheckAndRecordAttempt(), h.AuthHandler.Login)
	authGroup.Post("/google", h.AuthHandler.GoogleLogin)
	authGroup.Get("/me", h.Auth.Required(), h.AuthHandler.GetMe)

	// Everything below requires a signed-in teacher
	required := h.Auth.Required()
	staff := h.Auth.RequireRole(model.RoleTeacher, model.RoleAdmin)

	api.Post("/analysis/pdf", required, h.AnalysisHandler.AnalyzePDF)
	api.Get("/curricula", required, h.CurriculumHandler.ListCurricula)
	api.Get("/dashboard/stats", required, h.DashboardHandler.GetStats)

	lessons := api.Group("/lessons", required, staff)
	lessons.Post("/summarize", h.LessonHandler.Summarize)
	lessons.Post("/summarize-pdf", h.LessonHandler.SummarizePDF)
	lessons.Post("/vocabulary", h.LessonHandler.Vocabulary)
	lessons.Post("/mini-quiz", h.LessonHandler.MiniQuiz)
	lessons.Post("/presentation", h.LessonHandler.GeneratePresentation)
	lessons.Post("/", h.LessonHandler.CreateLesson)
	lessons.Get("/", h.LessonHandler.ListLessons)
	lessons.Get("/:id", h.LessonHandler.GetLesson)
	lessons.Put("/:id", h.LessonHandler.UpdateLesson)
	lessons.Delete("/:id", h.LessonHandler.DeleteLesson)

	ai := api.Group("/ai", required, staff)
	ai.Post("/quiz", h.AIHandler.GenerateQuiz)
	ai.Post("/material", h.AIHandler.GenerateMaterial)
	ai.Post("/assignment", h.AIHandler.GenerateAssignment)
	ai.Post("/question-paper", h.AIHandler.GenerateQuestionPaper)
	ai.Post("/data-analysis", h.AIHandler.AnalyzeData)
}
