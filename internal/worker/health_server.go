package worker

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LivenessChecker reports whether the worker loop is running.
type LivenessChecker interface {
	Alive() bool
}

// HealthServer exposes the worker liveness endpoint.
type HealthServer struct {
	server  *http.Server
	checker LivenessChecker
	logger  *slog.Logger
}

// NewHealthServer creates a new HealthServer.
func NewHealthServer(host string, port int, checker LivenessChecker, logger *slog.Logger) *HealthServer {
	s := &HealthServer{
		checker: checker,
		logger:  logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", s.healthHandler)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *HealthServer) GetHandler() http.Handler {
	return s.server.Handler
}

// healthHandler returns 200 {"ok":true} while the worker runs and 503 {"ok":false} otherwise.
func (s *HealthServer) healthHandler(c *gin.Context) {
	if !s.checker.Alive() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Start starts the health HTTP server.
func (s *HealthServer) Start(ctx context.Context) error {
	s.logger.Info("starting worker health server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start worker health server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the health HTTP server.
func (s *HealthServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down worker health server")
	return s.server.Shutdown(ctx)
}
