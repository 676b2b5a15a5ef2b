package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/config"
	"github.com/Tanveersultana125/co-teacher-backend/database"
	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/services/cron"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"gorm.io/gorm"
)

// checkjobs prints recent scheduled job runs and can run the upload sweep
// or log prune once, outside the server's schedule.
func main() {
	job := flag.String("job", "", "only show runs of this job")
	limit := flag.Int("limit", 20, "number of runs to show")
	sweep := flag.Bool("sweep", false, "sweep stale uploads now")
	prune := flag.Bool("prune", false, "prune old job logs now")
	flag.Parse()

	if err := run(*job, *limit, *sweep, *prune); err != nil {
		fmt.Fprintln(os.Stderr, "checkjobs:", err)
		os.Exit(1)
	}
}

func run(job string, limit int, sweep, prune bool) error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}

	log := logger.Nop()
	store, err := database.StartGORM(env, log)
	if err != nil {
		return err
	}
	defer store.Close()

	manager := cron.NewCronManager(store.DB(), env.UPLOAD_DIR, log)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if sweep {
		msg, err := manager.SweepStaleUploads(ctx)
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
		fmt.Println("sweep:", msg)
	}
	if prune {
		msg, err := manager.PruneJobLogs(ctx)
		if err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		fmt.Println("prune:", msg)
	}

	return printRuns(store.DB(), job, limit)
}

func printRuns(db *gorm.DB, job string, limit int) error {
	query := db.Order("started_at DESC").Limit(limit)
	if job != "" {
		query = query.Where("job_name = ?", job)
	}

	var runs []model.CronJobLog
	if err := query.Find(&runs).Error; err != nil {
		return err
	}

	fmt.Println("========================================")
	fmt.Printf("RECENT JOB RUNS: %d\n", len(runs))
	fmt.Println("========================================")
	for _, r := range runs {
		icon := "◐"
		switch r.Status {
		case model.JobStatusCompleted:
			icon = "●"
		case model.JobStatusFailed:
			icon = "✗"
		}
		fmt.Printf("%s %-22s %-9s %s  %5dms  %s\n",
			icon, r.JobName, r.Status, r.StartedAt.Format("2006-01-02 15:04:05"), r.Duration, truncate(r.Message, 50))
		if r.ErrorMsg != "" {
			fmt.Printf("   Error: %s\n", r.ErrorMsg)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
