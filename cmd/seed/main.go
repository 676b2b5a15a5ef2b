package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Tanveersultana125/co-teacher-backend/config"
	"github.com/Tanveersultana125/co-teacher-backend/database"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seeding failed:", err)
		os.Exit(1)
	}
}

func run() error {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(env.GO_ENV)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := database.StartGORM(env, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return err
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Co-Teacher - Database Seeding")
	fmt.Println(separator)

	seeder := database.NewSeeder(store.DB(), log)
	if err := seeder.SeedAll(database.DemoTeacher{
		Email:    os.Getenv("SEED_TEACHER_EMAIL"),
		Password: os.Getenv("SEED_TEACHER_PASSWORD"),
		Name:     os.Getenv("SEED_TEACHER_NAME"),
	}); err != nil {
		return err
	}

	fmt.Println(separator)
	fmt.Println("Seeding completed. The demo teacher is created from SEED_TEACHER_EMAIL")
	fmt.Println("and SEED_TEACHER_PASSWORD; it is skipped when they are not set.")
	fmt.Println(separator)
	return nil
}
