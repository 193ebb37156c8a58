package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"salescli/internal/config"
	"salescli/internal/dataset"
	apierrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
	"salescli/internal/middleware"
)

// Server is the report HTTP server
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
	httpSrv   *http.Server
}

// NewServer builds the report server over a cleaned table
func NewServer(cfg *config.Config, table *dataset.Table, logger *slog.Logger, providers *infrastructure.OTelProviders) *Server {
	errorHandler := apierrors.NewErrorHandler(logger)
	reports := NewReportHandler(table, logger, errorHandler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	r.Get("/healthz", healthHandler(table))
	if providers != nil && providers.PrometheusHTTP != nil {
		r.Handle("/metrics", providers.PrometheusHTTP)
	}
	r.Mount("/api", reports.Routes())

	return &Server{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "server")),
		providers: providers,
		httpSrv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// ListenAndServe runs the server until it fails or is shut down
func (s *Server) ListenAndServe() error {
	s.logger.Info("Report server listening", slog.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down report server")
	return s.httpSrv.Shutdown(ctx)
}

// healthResponse is the /healthz payload
type healthResponse struct {
	Status    string    `json:"status"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

// healthHandler reports readiness and the loaded row count
func healthHandler(table *dataset.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, healthResponse{
			Status:    "ok",
			Rows:      table.Len(),
			Timestamp: time.Now().UTC(),
		})
	}
}
