// Package worker provides the delivery worker process.
//
// Claiming and dispatching jobs belongs to the delivery pipeline. This process exposes a
// liveness endpoint and periodically reports the depth of the job queue.
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	jobDomain "github.com/allisson/evently/internal/job/domain"
	"github.com/allisson/evently/internal/metrics"
)

// DefaultProbeInterval is used when Config.ProbeInterval is not positive.
const DefaultProbeInterval = 15 * time.Second

// Config holds worker configuration.
type Config struct {
	ProbeInterval time.Duration
}

// JobCounter reports how many jobs are in a given status.
type JobCounter interface {
	CountByStatus(ctx context.Context, status jobDomain.Status) (int64, error)
}

// probedStatuses are the non-terminal statuses reported as queue depth.
var probedStatuses = []jobDomain.Status{jobDomain.StatusQueued, jobDomain.StatusProcessing}

// Worker runs the queue-depth probe loop and tracks liveness.
type Worker struct {
	config  Config
	jobRepo JobCounter
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
	started atomic.Bool
}

// NewWorker creates a new Worker.
func NewWorker(
	config Config,
	jobRepo JobCounter,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Worker {
	if config.ProbeInterval <= 0 {
		config.ProbeInterval = DefaultProbeInterval
	}
	return &Worker{
		config:  config,
		jobRepo: jobRepo,
		metrics: businessMetrics,
		logger:  logger,
	}
}

// Alive reports whether the probe loop is running.
func (w *Worker) Alive() bool {
	return w.started.Load()
}

// Start runs the probe loop until ctx is canceled.
func (w *Worker) Start(ctx context.Context) error {
	if w.logger != nil {
		w.logger.Info("starting worker", slog.Duration("probe_interval", w.config.ProbeInterval))
	}

	w.started.Store(true)
	defer w.started.Store(false)

	ticker := time.NewTicker(w.config.ProbeInterval)
	defer ticker.Stop()

	w.probeAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Info("stopping worker")
			}
			return ctx.Err()
		case <-ticker.C:
			w.probeAndLog(ctx)
		}
	}
}

// Probe records the number of queued and processing jobs.
func (w *Worker) Probe(ctx context.Context) error {
	for _, status := range probedStatuses {
		depth, err := w.jobRepo.CountByStatus(ctx, status)
		if err != nil {
			return err
		}
		w.metrics.RecordQueueDepth(ctx, string(status), depth)

		if w.logger != nil {
			w.logger.Debug("job queue depth",
				slog.String("status", string(status)),
				slog.Int64("depth", depth),
			)
		}
	}
	return nil
}

func (w *Worker) probeAndLog(ctx context.Context) {
	if err := w.Probe(ctx); err != nil && ctx.Err() == nil && w.logger != nil {
		w.logger.Error("failed to probe job queue", slog.Any("error", err))
	}
}
