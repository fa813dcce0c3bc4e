// Package main provides a tool to seed the database with demo task data.
//
// It creates demo accounts with categories, tags, and a spread of tasks so
// filtering, ordering, and pagination can be exercised against real data.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/taskboard/data
//	go run ./cmd/seed --data-path ~/taskboard/data --users 3 --tasks 40
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/taskboard/taskboard-server/internal/auth"
	domainerrors "github.com/taskboard/taskboard-server/internal/errors"
	"github.com/taskboard/taskboard-server/internal/service"
	"github.com/taskboard/taskboard-server/internal/store/sqlite"
)

// seedPassword is the password every demo account gets.
const seedPassword = "demo-password-123"

var (
	dataPath = flag.String("data-path", "", "Base path for data storage (default: ~/taskboard/data)")
	numUsers = flag.Int("users", 2, "Number of demo users to create")
	numTasks = flag.Int("tasks", 25, "Number of tasks to create per user")
)

var demoUsers = []struct {
	email string
	name  string
}{
	{"alex@example.com", "Alex Rivera"},
	{"jordan@example.com", "Jordan Chen"},
	{"sam@example.com", "Sam Taylor"},
	{"casey@example.com", "Casey Morgan"},
	{"riley@example.com", "Riley Kim"},
}

var demoCategories = []string{"Work", "Personal", "Errands", "Health"}

var demoTags = []string{"urgent", "waiting", "quick-win", "deep-work", "someday"}

var taskTitles = []string{
	"Write status report",
	"Review pull requests",
	"Buy groceries",
	"Call the dentist",
	"Plan the sprint",
	"Renew passport",
	"Clean the garage",
	"Book flights",
	"Prepare slides",
	"Fix the leaking tap",
	"Read design doc",
	"Schedule one-on-ones",
	"Update dependencies",
	"Water the plants",
	"File expense report",
}

func main() {
	flag.Parse()

	basePath := *dataPath
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/taskboard/data")
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(basePath, "taskboard.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.DiscardHandler)
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	authKey, err := auth.LoadOrGenerateKey(basePath)
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	tokenService, err := auth.NewTokenService(authKey, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	authService := service.NewAuthService(st, tokenService, logger)
	taskService := service.NewTaskService(st, logger)
	categoryService := service.NewCategoryService(st, logger)
	tagService := service.NewTagService(st, logger)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := min(*numUsers, len(demoUsers))
	for i := range users {
		demo := demoUsers[i]

		resp, err := authService.Register(ctx, service.RegisterRequest{
			Email:    demo.email,
			Password: seedPassword,
			Name:     demo.name,
		})
		if err != nil {
			if errors.Is(err, domainerrors.ErrConflict) {
				fmt.Printf("User %s already exists, skipping\n", demo.email)
				continue
			}
			log.Fatalf("Failed to register %s: %v", demo.email, err)
		}
		userID := resp.User.ID
		fmt.Printf("\nCreated user: %s (%s)\n", demo.name, demo.email)

		var categoryIDs []string
		for _, name := range demoCategories {
			category, err := categoryService.Create(ctx, userID, service.CreateCategoryRequest{Name: name})
			if err != nil {
				log.Fatalf("Failed to create category %q: %v", name, err)
			}
			categoryIDs = append(categoryIDs, category.ID)
		}
		fmt.Printf("  Created %d categories\n", len(categoryIDs))

		var tagIDs []string
		for _, name := range demoTags {
			tag, err := tagService.Create(ctx, userID, service.CreateTagRequest{Name: name})
			if err != nil {
				log.Fatalf("Failed to create tag %q: %v", name, err)
			}
			tagIDs = append(tagIDs, tag.ID)
		}
		fmt.Printf("  Created %d tags\n", len(tagIDs))

		created := 0
		for n := range *numTasks {
			title := fmt.Sprintf("%s #%d", taskTitles[rng.Intn(len(taskTitles))], n+1)

			req := service.CreateTaskRequest{
				Title:    title,
				Priority: []string{"low", "medium", "high"}[rng.Intn(3)],
			}

			// Roughly two thirds of tasks get a category, half get tags,
			// and 70% get a due date within +/- two weeks.
			if rng.Intn(3) != 0 {
				req.CategoryID = categoryIDs[rng.Intn(len(categoryIDs))]
			}
			if rng.Intn(2) == 0 {
				req.TagIDs = []string{tagIDs[rng.Intn(len(tagIDs))]}
			}
			if rng.Float32() < 0.7 {
				due := time.Now().AddDate(0, 0, rng.Intn(29)-14).Truncate(time.Hour)
				req.DueDate = &due
			}

			task, err := taskService.Create(ctx, userID, req)
			if err != nil {
				log.Printf("  Failed to create task %q: %v", title, err)
				continue
			}

			// A third of tasks start out completed.
			if rng.Intn(3) == 0 {
				if _, err := taskService.Complete(ctx, userID, task.ID); err != nil {
					log.Printf("  Failed to complete task %q: %v", title, err)
				}
			}
			created++
		}
		fmt.Printf("  Created %d tasks\n", created)
	}

	fmt.Printf("\nSeeding complete. All demo accounts use password %q.\n", seedPassword)
}
