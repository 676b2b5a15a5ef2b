package services

import (
	"context"
	"testing"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/model"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	teacher := newTeacher(t, db, "a@school.edu")
	other := newTeacher(t, db, "b@school.edu")
	svc := NewDashboardService(db, nil)

	empty := svc.Stats(context.Background(), teacher.ID)
	if empty.AttendanceRate != 95 || empty.AvgPerformance != 78 || empty.ClassesToday != 4 || empty.PendingAssignments != 5 {
		t.Errorf("empty stats = %+v", empty)
	}

	students := []model.Student{{Name: "Asha"}, {Name: "Bilal"}, {Name: "Chen"}}
	db.Create(&students)
	db.Create(&model.LessonPlan{TeacherID: teacher.ID, Title: "L1"})
	db.Create(&model.LessonPlan{TeacherID: teacher.ID, Title: "L2"})
	db.Create(&model.LessonPlan{TeacherID: other.ID, Title: "L3"})

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i, status := range []string{model.AttendancePresent, model.AttendancePresent, model.AttendanceAbsent} {
		db.Create(&model.AttendanceRecord{TeacherID: teacher.ID, StudentID: students[i].ID, Date: day, Status: status})
	}
	db.Create(&model.AttendanceRecord{TeacherID: other.ID, StudentID: students[0].ID, Date: day, Status: model.AttendanceAbsent})

	stats := svc.Stats(context.Background(), teacher.ID)
	if stats.TotalStudents != 3 || stats.LessonsCreated != 2 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.AttendanceRate != 67 {
		t.Errorf("attendance rate = %d, want 67", stats.AttendanceRate)
	}
}

func TestDashboardStatsCanceled(t *testing.T) {
	svc := NewDashboardService(newTestDB(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := svc.Stats(ctx, 1); got != DefaultDashboardStats() {
		t.Errorf("stats = %+v", got)
	}
}
