package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager/config"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type demoTask struct {
	title, description, status string
	dueInDays                  int
}

var demoTasks = []demoTask{
	{"Set up the project board", "Columns for todo, in progress and done", "done", 0},
	{"Write the onboarding guide", "", "in-progress", 3},
	{"Plan the next sprint", "Collect estimates from the team", "todo", 7},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, time.Minute)
	if err != nil {
		logger.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("failed to migrate: %v", err)
	}

	email := "demo@example.com"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password, cfg.BCryptCost)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	// replace the demo user's tasks so reseeding stays idempotent
	if _, err := pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1`, id); err != nil {
		logger.Fatalf("failed to clear demo tasks: %v", err)
	}
	for _, t := range demoTasks {
		var due *time.Time
		if t.dueInDays > 0 {
			d := time.Now().UTC().AddDate(0, 0, t.dueInDays).Truncate(24 * time.Hour)
			due = &d
		}
		if _, err := pool.Exec(ctx, `
			INSERT INTO tasks (owner_id, title, description, due_date, status)
			VALUES ($1, $2, $3, $4, $5)
		`, id, t.title, t.description, due, t.status); err != nil {
			logger.Fatalf("failed to seed task %q: %v", t.title, err)
		}
	}
	fmt.Printf("seeded %d tasks for %s\n", len(demoTasks), email)
}
