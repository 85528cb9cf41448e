package usecase

import (
	"context"
	"time"

	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
	"github.com/allisson/evently/internal/metrics"
)

// ingestUseCaseWithMetrics decorates IngestUseCase with metrics instrumentation.
type ingestUseCaseWithMetrics struct {
	next    IngestUseCase
	metrics metrics.BusinessMetrics
}

// NewIngestUseCaseWithMetrics wraps an IngestUseCase with metrics recording.
func NewIngestUseCaseWithMetrics(useCase IngestUseCase, m metrics.BusinessMetrics) IngestUseCase {
	return &ingestUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// CreateEvent records operation, duration and fan-out width metrics.
func (i *ingestUseCaseWithMetrics) CreateEvent(
	ctx context.Context,
	input *ingestDomain.CreateEventInput,
) (*ingestDomain.Result, error) {
	start := time.Now()
	result, err := i.next.CreateEvent(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "events", "event_create", status)
	i.metrics.RecordDuration(ctx, "events", "event_create", time.Since(start), status)
	if err == nil {
		i.metrics.RecordFanOut(ctx, input.Type, len(result.JobIDs))
	}

	return result, err
}
