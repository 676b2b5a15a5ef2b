package services

import (
	"context"
	"math"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"gorm.io/gorm"
)

const (
	attendanceSample      = 100
	defaultAttendanceRate = 95
	// Placeholders until grading, timetables and assignments are tracked.
	placeholderPerformance = 78
	placeholderClasses     = 4
	placeholderAssignments = 5
)

// DashboardStats is the teacher home screen summary.
type DashboardStats struct {
	TotalStudents      int64 `json:"totalStudents"`
	LessonsCreated     int64 `json:"lessonsCreated"`
	AvgPerformance     int   `json:"avgPerformance"`
	ClassesToday       int   `json:"classesToday"`
	AttendanceRate     int   `json:"attendanceRate"`
	PendingAssignments int   `json:"pendingAssignments"`
}

// DefaultDashboardStats is returned when stats cannot be computed at all.
func DefaultDashboardStats() DashboardStats {
	return DashboardStats{
		AvgPerformance: placeholderPerformance,
		AttendanceRate: defaultAttendanceRate,
	}
}

// DashboardService aggregates counts for the dashboard.
type DashboardService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, log *logger.Logger) *DashboardService {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardService{db: db, log: log}
}

// Stats computes teacherID's dashboard. Each count fails on its own: a
// failed query is logged and reported as zero, or as the default rate for
// attendance. A canceled request gets DefaultDashboardStats.
func (s *DashboardService) Stats(ctx context.Context, teacherID uint) DashboardStats {
	if err := ctx.Err(); err != nil {
		s.log.Warn("dashboard request canceled", "teacher_id", teacherID, "error", err)
		return DefaultDashboardStats()
	}
	db := s.db.WithContext(ctx)
	stats := DashboardStats{
		AvgPerformance:     placeholderPerformance,
		ClassesToday:       placeholderClasses,
		PendingAssignments: placeholderAssignments,
		AttendanceRate:     defaultAttendanceRate,
	}

	if err := db.Model(&model.Student{}).Count(&stats.TotalStudents).Error; err != nil {
		s.log.Error("dashboard students count failed", "error", err)
		stats.TotalStudents = 0
	}

	if err := db.Model(&model.LessonPlan{}).Where("teacher_id = ?", teacherID).Count(&stats.LessonsCreated).Error; err != nil {
		s.log.Error("dashboard lessons count failed", "teacher_id", teacherID, "error", err)
		stats.LessonsCreated = 0
	}

	var statuses []string
	err := db.Model(&model.AttendanceRecord{}).
		Where("teacher_id = ?", teacherID).
		Order("date DESC").
		Limit(attendanceSample).
		Pluck("status", &statuses).Error
	if err != nil {
		s.log.Error("dashboard attendance fetch failed", "teacher_id", teacherID, "error", err)
	} else if len(statuses) > 0 {
		present := 0
		for _, st := range statuses {
			if st == model.AttendancePresent {
				present++
			}
		}
		stats.AttendanceRate = int(math.Round(float64(present) / float64(len(statuses)) * 100))
	}

	return stats
}
