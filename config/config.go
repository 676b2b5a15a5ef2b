package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/services/analysis"
	"github.com/joho/godotenv"
)

// LoadENV loads .env when GO_ENV is unset or development. A missing file is
// not an error; the process environment is used as is.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string
	PORT   int
	// Database
	DB_DRIVER    string
	SQLITE_PATH  string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// JWT
	JWT_SECRET string
	JWT_ISSUER string
	// Redis
	REDIS_URL string
	// LLM provider
	GROQ_API_KEY             string
	GROQ_BASE_URL            string
	GROQ_PRIMARY_MODEL       string
	GROQ_FALLBACK_MODEL      string
	GROQ_TIMEOUT_SECONDS     int
	GROQ_REQUESTS_PER_MINUTE int
	// Documents
	OCR_SERVICE_URL string
	UPLOAD_DIR      string
	MAX_UPLOAD_MB   int
	// Analysis pipeline
	ANALYSIS_MIN_TEXT_LENGTH   int
	ANALYSIS_MAX_CHARS         int
	ANALYSIS_CHUNK_SIZE        int
	ANALYSIS_MAX_CHUNKS        int
	ANALYSIS_MAX_RETRIES       int
	ANALYSIS_CHUNK_TIMEOUT_SEC int
	// Integrations
	PEXELS_API_KEY   string
	GOOGLE_CLIENT_ID string
	// HTTP
	ALLOWED_ORIGINS     []string
	RATE_LIMIT_REQUESTS int
	CRON_ENABLED        bool
}

func Get() (*EnvironmentVariable, error) {
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		PORT:         intOr("PORT", 8080),
		DB_DRIVER:    stringOr("DB_DRIVER", "postgres"),
		SQLITE_PATH:  stringOr("SQLITE_PATH", "co-teacher.db"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      stringOr("DB_HOST", "localhost"),
		DB_PORT:      stringOr("DB_PORT", "5432"),
		DB_SSL_MODE:  stringOr("DB_SSL_MODE", "disable"),
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: stringOr("JWT_ISSUER", "co-teacher"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// LLM provider
		GROQ_API_KEY:             os.Getenv("GROQ_API_KEY"),
		GROQ_BASE_URL:            os.Getenv("GROQ_BASE_URL"),
		GROQ_PRIMARY_MODEL:       os.Getenv("GROQ_PRIMARY_MODEL"),
		GROQ_FALLBACK_MODEL:      os.Getenv("GROQ_FALLBACK_MODEL"),
		GROQ_TIMEOUT_SECONDS:     intOr("GROQ_TIMEOUT_SECONDS", 120),
		GROQ_REQUESTS_PER_MINUTE: intOr("GROQ_REQUESTS_PER_MINUTE", 30),
		// Documents
		OCR_SERVICE_URL: os.Getenv("OCR_SERVICE_URL"),
		UPLOAD_DIR:      uploadDir,
		MAX_UPLOAD_MB:   intOr("MAX_UPLOAD_MB", 25),
		// Analysis
		ANALYSIS_MIN_TEXT_LENGTH:   intOr("ANALYSIS_MIN_TEXT_LENGTH", analysis.DefaultMinTextLength),
		ANALYSIS_MAX_CHARS:         intOr("ANALYSIS_MAX_CHARS", analysis.DefaultMaxAnalysisChars),
		ANALYSIS_CHUNK_SIZE:        intOr("ANALYSIS_CHUNK_SIZE", analysis.DefaultChunkSize),
		ANALYSIS_MAX_CHUNKS:        intOr("ANALYSIS_MAX_CHUNKS", analysis.DefaultMaxChunks),
		ANALYSIS_MAX_RETRIES:       intOr("ANALYSIS_MAX_RETRIES", analysis.DefaultMaxRetries),
		ANALYSIS_CHUNK_TIMEOUT_SEC: intOr("ANALYSIS_CHUNK_TIMEOUT_SEC", int(analysis.DefaultChunkTimeout/time.Second)),
		// Integrations
		PEXELS_API_KEY:   os.Getenv("PEXELS_API_KEY"),
		GOOGLE_CLIENT_ID: os.Getenv("GOOGLE_CLIENT_ID"),
		// HTTP
		ALLOWED_ORIGINS:     listOr("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		RATE_LIMIT_REQUESTS: intOr("RATE_LIMIT_REQUESTS", 100),
		CRON_ENABLED:        os.Getenv("CRON_ENABLED") != "false",
	}

	return envVariables, nil
}

// IsDevelopment reports whether debug detail may be exposed to clients.
func (e *EnvironmentVariable) IsDevelopment() bool {
	return e.GO_ENV == "" || e.GO_ENV == "development"
}

// AnalysisConfig converts the ANALYSIS_* knobs into pipeline limits. An
// ANALYSIS_MAX_RETRIES of 0 means no retries.
func (e *EnvironmentVariable) AnalysisConfig() analysis.Config {
	retries := e.ANALYSIS_MAX_RETRIES
	if retries == 0 {
		retries = -1
	}
	return analysis.Config{
		MinTextLength:    e.ANALYSIS_MIN_TEXT_LENGTH,
		MaxAnalysisChars: e.ANALYSIS_MAX_CHARS,
		ChunkSize:        e.ANALYSIS_CHUNK_SIZE,
		MaxChunks:        e.ANALYSIS_MAX_CHUNKS,
		MaxRetries:       retries,
		ChunkTimeout:     time.Duration(e.ANALYSIS_CHUNK_TIMEOUT_SEC) * time.Second,
	}
}

func stringOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func listOr(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
