// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/evently/internal/database"
	ingestHTTP "github.com/allisson/evently/internal/ingest/http"
	"github.com/allisson/evently/internal/metrics"
	routeHTTP "github.com/allisson/evently/internal/route/http"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// RouterConfig holds the optional features wired into the router.
type RouterConfig struct {
	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEventsEnabled bool
	RateLimitEventsRPS     float64
	RateLimitEventsBurst   int

	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and all API routes.
//
// Routes:
//   - GET  /health        liveness
//   - GET  /ready         readiness (database ping)
//   - POST /v1/routes     register a route
//   - GET  /v1/routes     list routes
//   - POST /v1/events     ingest an event (optionally rate limited)
//
// ctx bounds background work started by middleware.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg RouterConfig,
	routeHandler *routeHTTP.RouteHandler,
	eventHandler *ingestHTTP.EventHandler,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		routes := v1.Group("/routes")
		routes.POST("", routeHandler.CreateHandler)
		routes.GET("", routeHandler.ListHandler)

		events := v1.Group("/events")
		if cfg.RateLimitEventsEnabled {
			events.Use(ingestHTTP.RateLimitMiddleware(ctx, cfg.RateLimitEventsRPS, cfg.RateLimitEventsBurst, s.logger))
		}
		events.POST("", eventHandler.CreateHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	if err := database.Ping(c.Request.Context(), s.db); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
