package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/evently/internal/app"
	"github.com/allisson/evently/internal/config"
)

// RunWorker starts the worker loop together with its health server and, when enabled,
// the metrics server. Blocks until receiving SIGINT/SIGTERM or until a component fails.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	w, err := container.Worker()
	if err != nil {
		return fmt.Errorf("failed to initialize worker: %w", err)
	}

	healthServer, err := container.WorkerHealthServer()
	if err != nil {
		return fmt.Errorf("failed to initialize worker health server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("worker error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := healthServer.Start(gctx); err != nil {
			return fmt.Errorf("worker health server error: %w", err)
		}
		return nil
	})

	servers := []stoppable{healthServer}

	if metricsServer != nil {
		servers = append(servers, metricsServer)
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		return shutdownAll(servers)
	})

	return g.Wait()
}
