package cron

import (
	"context"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	log       *logger.Logger
	uploadDir string
	now       func() time.Time
}

// NewCronManager creates a new cron manager. Stale uploads are swept from
// uploadDir.
func NewCronManager(db *gorm.DB, uploadDir string, log *logger.Logger) *CronManager {
	if log == nil {
		log = logger.Nop()
	}
	return &CronManager{
		cron:      cron.New(cron.WithSeconds()),
		db:        db,
		log:       log,
		uploadDir: uploadDir,
		now:       time.Now,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()
	m.log.Info("cron jobs started", "jobs", len(m.cron.Entries()))
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish.
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Every 10 minutes: delete uploads whose request never cleaned up
	if _, err := m.cron.AddFunc("0 */10 * * * *", func() {
		m.run("sweep_stale_uploads", 2*time.Minute, m.SweepStaleUploads)
	}); err != nil {
		return err
	}

	// Daily at 3 AM: prune old job logs
	if _, err := m.cron.AddFunc("0 0 3 * * *", func() {
		m.run("prune_cron_logs", time.Minute, m.PruneJobLogs)
	}); err != nil {
		return err
	}

	return nil
}

// run executes job and records the run in cron_job_logs.
func (m *CronManager) run(jobName string, timeout time.Duration, job func(ctx context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	started := m.now()
	entry := model.CronJobLog{
		JobName:   jobName,
		Status:    model.JobStatusStarted,
		StartedAt: started,
	}
	if err := m.db.WithContext(ctx).Create(&entry).Error; err != nil {
		m.log.Warn("failed to record cron job start", "job", jobName, "error", err)
	}

	message, err := job(ctx)

	finished := m.now()
	updates := map[string]interface{}{
		"completed_at": finished,
		"duration":     finished.Sub(started).Milliseconds(),
		"message":      message,
	}
	if err != nil {
		m.log.Error("cron job failed", "job", jobName, "error", err)
		updates["status"] = model.JobStatusFailed
		updates["error_msg"] = err.Error()
	} else {
		m.log.Info("cron job completed", "job", jobName, "result", message)
		updates["status"] = model.JobStatusCompleted
	}

	if entry.ID != 0 {
		if err := m.db.Model(&entry).Updates(updates).Error; err != nil {
			m.log.Warn("failed to record cron job result", "job", jobName, "error", err)
		}
	}
}
