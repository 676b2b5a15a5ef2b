package model

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User is a teacher account. Google sign-in users have no password hash.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	GoogleID     *string        `gorm:"uniqueIndex" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'teacher'" json:"role"`
	SchoolName   string         `json:"school_name,omitempty"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	TokenVersion int            `gorm:"default:0" json:"-"` // bump to invalidate every issued token

	LessonPlans []LessonPlan `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
}
