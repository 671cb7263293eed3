// Package server is the composition root: it opens the store, builds every
// service and handler once, mounts the routes and runs the HTTP server.
//
// DEPENDENCY FLOW:
//
//	config.Config → repository.Store (sqlite or mongodb)
//	Store → services (each gets the narrow repository interface it needs)
//	services → handlers → chi router
//
// Nothing below this package knows which store backend is in use.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/learnhub/internal/auth"
	"github.com/sakif/learnhub/internal/config"
	"github.com/sakif/learnhub/internal/handler"
	"github.com/sakif/learnhub/internal/middleware"
	"github.com/sakif/learnhub/internal/notify"
	"github.com/sakif/learnhub/internal/repository"
	"github.com/sakif/learnhub/internal/repository/mongodb"
	sqliteRepo "github.com/sakif/learnhub/internal/repository/sqlite"
	"github.com/sakif/learnhub/internal/service"
)

// Server owns the router and the store connection. The store is closed when
// Start returns.
type Server struct {
	router http.Handler
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// New opens the store selected by cfg.StoreDriver and wires the server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s, err := NewWithStore(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStore wires the server around an already-open store. The server
// takes ownership of store.
func NewWithStore(cfg config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
		store:  store,
	}
	router, err := s.routes()
	if err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	s.router = router
	return s, nil
}

// OpenStore connects to the backend named in cfg.
func OpenStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("opening mongodb store: %w", err)
		}
		return store, nil

	case config.DriverSQLite:
		if cfg.DBPath != ":memory:" {
			// Like `mkdir -p`; the data directory may not exist on first run.
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		store, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Handler exposes the full middleware-wrapped router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes builds the router.
//
//	GET  /healthz
//	     /api/events             events and registration
//	     /api/resources          shared links and articles
//	     /api/learning-progress  journal entries, comments, likes
//	     /api/notifications      comment/like inbox
//
// Middleware order: CORS answers preflight requests before anything else,
// then request id, real IP, logging, and panic recovery.
func (s *Server) routes() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)

	guard, err := s.requesterGuard()
	if err != nil {
		return nil, err
	}

	sink := notify.NewStoreSink(s.store, s.logger)

	events := handler.NewEventHandler(service.NewEventService(s.store, s.logger), s.logger)
	resources := handler.NewResourceHandler(service.NewResourceService(s.store, s.logger), s.logger)
	progress := handler.NewProgressHandler(service.NewProgressService(s.store, sink, s.logger), s.logger)
	notifications := handler.NewNotificationHandler(service.NewNotificationService(s.store, s.logger), s.logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/events", events.Routes(guard))
		r.Mount("/resources", resources.Routes(guard))
		r.Mount("/learning-progress", progress.Routes(guard))
		r.Mount("/notifications", notifications.Routes(guard))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{chimiddleware.RequestIDHeader},
		MaxAge:         300,
	})
	return c.Handler(r), nil
}

// requesterGuard returns the middleware that verifies {userId} on mutating
// routes, or nil when no JWT secret is configured.
func (s *Server) requesterGuard() (handler.Middleware, error) {
	if !s.config.AuthEnabled() {
		s.logger.Warn("JWT_SECRET not set: user ids in request paths are trusted as supplied")
		return nil, nil
	}
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return nil, err
	}
	return auth.RequireRequester(tokens, "userId"), nil
}

// Start serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
// for up to cfg.ShutdownTimeout and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.StoreDriver),
			slog.Bool("auth", s.config.AuthEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
