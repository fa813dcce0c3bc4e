package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-server/internal/auth"
	"github.com/taskboard/taskboard-server/internal/store"
	"github.com/taskboard/taskboard-server/internal/store/sqlite"
)

// testEnv bundles the services under test with their shared store.
type testEnv struct {
	store      store.Store
	auth       *AuthService
	tasks      *TaskService
	categories *CategoryService
	tags       *TagService
}

// newTestEnv creates services backed by a temporary SQLite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute)
	require.NoError(t, err)

	return &testEnv{
		store:      s,
		auth:       NewAuthService(s, tokenService, logger),
		tasks:      NewTaskService(s, logger),
		categories: NewCategoryService(s, logger),
		tags:       NewTagService(s, logger),
	}
}

// registerUser creates an account and returns its user ID.
func (env *testEnv) registerUser(t *testing.T, email string) string {
	t.Helper()

	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "correct horse battery staple",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return resp.User.ID
}
