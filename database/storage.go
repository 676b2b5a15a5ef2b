package database

import "gorm.io/gorm"

// Storage is the persistence handle the app and router depend on.
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	DB() *gorm.DB
}
