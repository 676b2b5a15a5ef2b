package cron

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/utils/upload"
)

const (
	// StaleUploadAge is how old an upload must be before the sweep deletes it.
	StaleUploadAge  = 30 * time.Minute
	jobLogRetention = 30 * 24 * time.Hour
)

// SweepStaleUploads deletes this service's uploads older than StaleUploadAge.
// Requests delete their own uploads; this catches crashes and kills.
func (m *CronManager) SweepStaleUploads(ctx context.Context) (string, error) {
	if m.uploadDir == "" {
		return "no upload directory configured", nil
	}

	entries, err := os.ReadDir(m.uploadDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "upload directory does not exist", nil
		}
		return "", fmt.Errorf("failed to read upload directory: %w", err)
	}

	cutoff := m.now().Add(-StaleUploadAge)
	removed, failed := 0, 0
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if e.IsDir() || !upload.Owned(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.uploadDir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.log.Warn("failed to remove stale upload", "file", e.Name(), "error", err)
			failed++
			continue
		}
		removed++
	}

	return fmt.Sprintf("removed %d stale uploads, failed %d", removed, failed), ctx.Err()
}

// PruneJobLogs deletes job log rows older than 30 days.
func (m *CronManager) PruneJobLogs(ctx context.Context) (string, error) {
	res := m.db.WithContext(ctx).
		Where("started_at < ?", m.now().Add(-jobLogRetention)).
		Delete(&model.CronJobLog{})
	if res.Error != nil {
		return "", fmt.Errorf("failed to prune job logs: %w", res.Error)
	}
	return fmt.Sprintf("pruned %d job logs", res.RowsAffected), nil
}
