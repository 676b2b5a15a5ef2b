package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/api"
	"github.com/Tanveersultana125/co-teacher-backend/config"
	"github.com/Tanveersultana125/co-teacher-backend/database"
	ai_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/ai"
	analysis_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/analysis"
	auth_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/auth"
	curriculum_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/curriculum"
	dashboard_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/dashboard"
	lesson_handlers "github.com/Tanveersultana125/co-teacher-backend/handlers/lesson"
	"github.com/Tanveersultana125/co-teacher-backend/router"
	"github.com/Tanveersultana125/co-teacher-backend/services"
	"github.com/Tanveersultana125/co-teacher-backend/services/analysis"
	"github.com/Tanveersultana125/co-teacher-backend/services/content"
	"github.com/Tanveersultana125/co-teacher-backend/services/cron"
	"github.com/Tanveersultana125/co-teacher-backend/services/extraction"
	"github.com/Tanveersultana125/co-teacher-backend/services/groq"
	"github.com/Tanveersultana125/co-teacher-backend/services/imagesearch"
	"github.com/Tanveersultana125/co-teacher-backend/utils/auth"
	"github.com/Tanveersultana125/co-teacher-backend/utils/cache"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/Tanveersultana125/co-teacher-backend/utils/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 30 * time.Second

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}
	if env.JWT_SECRET == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	log, err := logger.New(env.GO_ENV)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Initialize GORM database connection
	store, err := database.StartGORM(env, log)
	if err != nil {
		log.Error("check whether the database is running", "driver", env.DB_DRIVER)
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := os.MkdirAll(env.UPLOAD_DIR, 0o700); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Redis is optional: without it taxonomy lookups are not cached and
	// login lockouts are off.
	var sharedCache cache.Cache
	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", "error", err)
		} else {
			defer redisCache.Close()
			sharedCache = redisCache
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if env.GROQ_API_KEY == "" {
		log.Warn("GROQ_API_KEY is not set, AI requests will fail and generators will return fallbacks")
	}
	llm := groq.NewClient(groq.Config{
		APIKey:            env.GROQ_API_KEY,
		BaseURL:           env.GROQ_BASE_URL,
		PrimaryModel:      env.GROQ_PRIMARY_MODEL,
		FallbackModel:     env.GROQ_FALLBACK_MODEL,
		Timeout:           time.Duration(env.GROQ_TIMEOUT_SECONDS) * time.Second,
		RequestsPerMinute: env.GROQ_REQUESTS_PER_MINUTE,
		Logger:            log,
		Registerer:        registry,
	})

	var ocr *extraction.OCRClient
	if env.OCR_SERVICE_URL != "" {
		ocr = extraction.NewOCRClient(env.OCR_SERVICE_URL)
	}
	extractor := extraction.NewExtractor(ocr, log)

	pipelineMetrics, err := analysis.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register analysis metrics: %w", err)
	}
	pipeline := analysis.NewPipeline(extractor, llm, env.AnalysisConfig(), log, pipelineMetrics)

	var images content.ImageSearcher
	if pexels := imagesearch.NewPexelsClient(env.PEXELS_API_KEY); pexels.Configured() {
		images = pexels
	}
	generator := content.NewGenerator(llm, images, log.With("component", "content"))

	curriculumService := services.NewCurriculumService(store.DB(), sharedCache, log)
	lessonService := services.NewLessonService(store.DB(), curriculumService, generator, log)
	dashboardService := services.NewDashboardService(store.DB(), log)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: env.JWT_SECRET, Issuer: env.JWT_ISSUER})
	bruteForce := middleware.NewBruteForceProtection(sharedCache, log)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if env.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.DB(), env.UPLOAD_DIR, log.With("component", "cron"))
		if err := cronManager.Start(); err != nil {
			log.Warn("failed to start cron jobs", "error", err)
			cronManager = nil
		}
	}
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), env.MAX_UPLOAD_MB, log)
	handlerSet := router.Handlers{
		Store:   store,
		Metrics: registry,
		Security: middleware.SecurityConfig{
			AllowedOrigins:    env.ALLOWED_ORIGINS,
			RateLimitRequests: env.RATE_LIMIT_REQUESTS,
			RateLimitWindow:   time.Minute,
		},
		Auth:       middleware.NewAuthMiddleware(jwtManager, store.DB()),
		BruteForce: bruteForce,

		AuthHandler:       auth_handlers.NewAuthHandler(store.DB(), jwtManager, bruteForce, auth_handlers.NewGoogleVerifier(env.GOOGLE_CLIENT_ID), log),
		AnalysisHandler:   analysis_handlers.NewAnalysisHandler(pipeline, env.UPLOAD_DIR, env.IsDevelopment(), log.With("component", "analysis")),
		LessonHandler:     lesson_handlers.NewLessonHandler(lessonService, generator, extractor, env.UPLOAD_DIR, log),
		AIHandler:         ai_handlers.NewAIHandler(generator, log),
		DashboardHandler:  dashboard_handlers.NewDashboardHandler(dashboardService),
		CurriculumHandler: curriculum_handlers.NewCurriculumHandler(curriculumService, log),
	}
	if ocr != nil {
		handlerSet.OCR = ocr
	}
	router.SetupRoutes(server.GetEngine(), handlerSet)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
