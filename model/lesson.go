package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LessonPlan.Type values.
const (
	LessonTypeLesson       = "LESSON"
	LessonTypePresentation = "PRESENTATION"
)

// LessonPlan.Status values.
const (
	LessonStatusDraft     = "DRAFT"
	LessonStatusPublished = "PUBLISHED"
)

// LessonPlan is a generated or hand-written lesson owned by one teacher.
// Content holds the generator output as a JSON document.
type LessonPlan struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
	TeacherID   uint              `gorm:"not null;index" json:"teacher_id"`
	Title       string            `gorm:"not null" json:"title"`
	Type        string            `gorm:"type:varchar(20);not null;default:'LESSON';index" json:"type"`
	Status      string            `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	Board       string            `json:"board,omitempty"`
	Grade       string            `json:"grade,omitempty"`
	Duration    int               `json:"duration,omitempty"` // minutes
	ResourceURL string            `json:"resource_url,omitempty"`
	Content     datatypes.JSONMap `json:"content"`
	SubjectID   *uint             `gorm:"index" json:"subject_id,omitempty"`
	TopicID     *uint             `gorm:"index" json:"topic_id,omitempty"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Topic   *Topic   `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
}

// TableName keeps lessons and presentations in one table.
func (LessonPlan) TableName() string {
	return "lesson_plans"
}
