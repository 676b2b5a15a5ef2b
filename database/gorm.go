package database

import (
	"fmt"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/config"
	"github.com/Tanveersultana125/co-teacher-backend/model"
	applog "github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db  *gorm.DB
	log *applog.Logger
}

// StartGORM opens the database selected by DB_DRIVER: PostgreSQL by default,
// or a SQLite file for local runs.
func StartGORM(env *config.EnvironmentVariable, log *applog.Logger) (*GORMStore, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if env.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}
	cfg := &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	}

	var dialector gorm.Dialector
	switch env.DB_DRIVER {
	case "sqlite":
		dialector = sqlite.Open(env.SQLITE_PATH)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.DB_HOST,
			env.DB_USER_NAME,
			env.DB_PASSWORD,
			env.DB_NAME,
			env.DB_PORT,
			env.DB_SSL_MODE,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		log.Error("unable to connect to database", "driver", env.DB_DRIVER, "error", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("connected to database", "driver", env.DB_DRIVER)
	return &GORMStore{db: db, log: log}, nil
}

// OpenSQLite opens a SQLite database at dsn. Tests pass "file::memory:".
func OpenSQLite(dsn string) (*GORMStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// one connection, so an in-memory database is shared by every query
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return &GORMStore{db: db, log: applog.Nop()}, nil
}

// Init runs AutoMigrate for every model.
func (s *GORMStore) Init() error {
	s.log.Info("running migrations")

	err := s.db.AutoMigrate(
		&model.User{},
		&model.Curriculum{},
		&model.Subject{},
		&model.Topic{},
		&model.LessonPlan{},
		&model.Student{},
		&model.AttendanceRecord{},
		&model.CronJobLog{},
	)
	if err != nil {
		s.log.Error("migration failed", "error", err)
		return err
	}
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the GORM handle for services and handlers.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
