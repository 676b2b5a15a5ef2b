package model

import "time"

// Curriculum is a board and grade pair, e.g. CBSE / Grade 8.
type Curriculum struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Board     string    `gorm:"not null;uniqueIndex:idx_curriculum_board_grade" json:"board"`
	Grade     string    `gorm:"not null;uniqueIndex:idx_curriculum_board_grade" json:"grade"`

	Subjects []Subject `gorm:"foreignKey:CurriculumID;constraint:OnDelete:CASCADE" json:"subjects,omitempty"`
}

// Subject belongs to one curriculum.
type Subject struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	CurriculumID uint      `gorm:"not null;uniqueIndex:idx_subject_curriculum_name" json:"curriculum_id"`
	Name         string    `gorm:"not null;uniqueIndex:idx_subject_curriculum_name" json:"name"`

	Curriculum *Curriculum `gorm:"foreignKey:CurriculumID" json:"curriculum,omitempty"`
	Topics     []Topic     `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"topics,omitempty"`
}

// Topic belongs to one subject.
type Topic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	SubjectID uint      `gorm:"not null;uniqueIndex:idx_topic_subject_name" json:"subject_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_topic_subject_name" json:"name"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}
