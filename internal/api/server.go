// Package api provides the HTTP API server and handlers for the taskboard application.
package api

import (
	"net/http"

	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taskboard/taskboard-server/internal/ratelimit"
	"github.com/taskboard/taskboard-server/internal/service"
	"github.com/taskboard/taskboard-server/internal/store"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth     *service.AuthService
	Task     *service.TaskService
	Category *service.CategoryService
	Tag      *service.TagService
}

// Options holds server tuning that comes from configuration.
type Options struct {
	CORSOrigins        []string
	LoginRatePerMinute int
	LoginBurst         int
}

// DefaultOptions returns options suitable for development and tests.
func DefaultOptions() Options {
	return Options{
		CORSOrigins:        []string{"*"},
		LoginRatePerMinute: 10,
		LoginBurst:         5,
	}
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:           store,
		services:        services,
		router:          chi.NewRouter(),
		logger:          logger,
		authRateLimiter: ratelimit.PerMinute(opts.LoginRatePerMinute, opts.LoginBurst),
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Taskboard API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerTaskRoutes()
	s.registerCategoryRoutes()
	s.registerTagRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Stop releases background resources held by the server.
func (s *Server) Stop() {
	s.authRateLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(authMiddleware(s.services.Auth))
	s.router.Use(s.authRateLimit)
}
