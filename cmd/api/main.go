// Package main provides the entry point for the taskboard server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskboard/taskboard-server/internal/api"
	"github.com/taskboard/taskboard-server/internal/auth"
	"github.com/taskboard/taskboard-server/internal/config"
	"github.com/taskboard/taskboard-server/internal/logger"
	"github.com/taskboard/taskboard-server/internal/service"
	"github.com/taskboard/taskboard-server/internal/store/sqlite"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// run wires the application together explicitly, bottom to top:
// config, logger, storage, auth, services, HTTP server.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	st, err := sqlite.Open(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	authKey, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return fmt.Errorf("load auth key: %w", err)
	}

	tokenService, err := auth.NewTokenService(authKey, cfg.Auth.AccessTokenDuration)
	if err != nil {
		return fmt.Errorf("create token service: %w", err)
	}

	services := &api.Services{
		Auth:     service.NewAuthService(st, tokenService, log.Logger),
		Task:     service.NewTaskService(st, log.Logger),
		Category: service.NewCategoryService(st, log.Logger),
		Tag:      service.NewTagService(st, log.Logger),
	}

	apiServer := api.NewServer(st, services, api.Options{
		CORSOrigins:        cfg.Server.CORSOrigins,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
		LoginBurst:         cfg.Auth.LoginBurst,
	}, log.Logger)
	defer apiServer.Stop()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			"addr", httpServer.Addr,
			"environment", cfg.App.Environment,
			"data_path", cfg.Data.BasePath,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server gracefully...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
