package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics defines the interface for recording business operation metrics.
// Implementations track operation counts and durations for observability across
// the routes, events and jobs domains.
type BusinessMetrics interface {
	// RecordOperation records a business operation with its status.
	// Domain examples: "routes", "events"
	// Operation examples: "route_create", "event_create"
	// Status examples: "success", "error"
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of a business operation with its status.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordFanOut records how many jobs a single event produced.
	RecordFanOut(ctx context.Context, eventType string, jobs int)

	// RecordQueueDepth records the last observed number of jobs in the given status.
	RecordQueueDepth(ctx context.Context, status string, depth int64)
}

// businessMetrics implements BusinessMetrics using OpenTelemetry metrics.
type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	fanOutHisto      metric.Int64Histogram
	queueDepthGauge  metric.Int64Gauge
}

// NewBusinessMetrics creates a new BusinessMetrics implementation using the provided meter provider.
// The namespace parameter is used as a prefix for all metric names (e.g., "evently").
// Returns error if meters cannot be initialized.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	fanOutHisto, err := meter.Int64Histogram(
		fmt.Sprintf("%s_fanout_jobs", namespace),
		metric.WithDescription("Number of jobs created per ingested event"),
		metric.WithUnit("{job}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25, 50, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fan-out histogram: %w", err)
	}

	queueDepthGauge, err := meter.Int64Gauge(
		fmt.Sprintf("%s_jobs", namespace),
		metric.WithDescription("Number of jobs per status at the last probe"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue depth gauge: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		fanOutHisto:      fanOutHisto,
		queueDepthGauge:  queueDepthGauge,
	}, nil
}

// RecordOperation increments the operation counter with domain, operation, and status labels.
func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with domain, operation, and status labels.
func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordFanOut records the number of jobs created for one event, labelled by event type.
func (b *businessMetrics) RecordFanOut(ctx context.Context, eventType string, jobs int) {
	b.fanOutHisto.Record(ctx, int64(jobs),
		metric.WithAttributes(attribute.String("event_type", eventType)),
	)
}

// RecordQueueDepth sets the job gauge for the given status.
func (b *businessMetrics) RecordQueueDepth(ctx context.Context, status string, depth int64) {
	b.queueDepthGauge.Record(ctx, depth,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// NoOpBusinessMetrics is a no-op implementation of BusinessMetrics for when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

// RecordFanOut does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordFanOut(ctx context.Context, eventType string, jobs int) {}

// RecordQueueDepth does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordQueueDepth(ctx context.Context, status string, depth int64) {}
