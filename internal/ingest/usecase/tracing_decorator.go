package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
)

const tracerName = "github.com/allisson/evently/internal/ingest"

// ingestUseCaseWithTracing decorates IngestUseCase with a span per ingestion.
// Spans go to the global tracer provider.
type ingestUseCaseWithTracing struct {
	next   IngestUseCase
	tracer trace.Tracer
}

// NewIngestUseCaseWithTracing wraps an IngestUseCase with OpenTelemetry tracing.
func NewIngestUseCaseWithTracing(useCase IngestUseCase) IngestUseCase {
	return &ingestUseCaseWithTracing{
		next:   useCase,
		tracer: otel.Tracer(tracerName),
	}
}

// CreateEvent runs the ingestion inside an "ingest.create_event" span.
func (i *ingestUseCaseWithTracing) CreateEvent(
	ctx context.Context,
	input *ingestDomain.CreateEventInput,
) (*ingestDomain.Result, error) {
	ctx, span := i.tracer.Start(ctx, "ingest.create_event",
		trace.WithAttributes(
			attribute.String("event.type", input.Type),
			attribute.Bool("event.idempotent", input.IdempotencyKey != nil),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	result, err := i.next.CreateEvent(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("event.id", result.EventID.String()),
		attribute.Int("fanout.jobs", len(result.JobIDs)),
		attribute.Int("fanout.created_jobs", result.CreatedJobs),
		attribute.Bool("event.replayed", result.Replayed),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}
