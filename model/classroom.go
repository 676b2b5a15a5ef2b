package model

import "time"

// Attendance statuses.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
)

// Student is an enrolled learner. Only counted by the dashboard for now.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `gorm:"not null" json:"name"`
	Grade      string    `json:"grade"`
	RollNumber string    `json:"roll_number"`
}

// AttendanceRecord is one student's attendance for one day, as marked by a
// teacher.
type AttendanceRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	TeacherID uint      `gorm:"not null;index" json:"teacher_id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Date      time.Time `gorm:"index" json:"date"`
	Status    string    `gorm:"type:varchar(10);not null" json:"status"`

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}
