package usecase

import (
	"context"
	"time"

	"github.com/allisson/evently/internal/metrics"
	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// routeUseCaseWithMetrics decorates RouteUseCase with metrics instrumentation.
type routeUseCaseWithMetrics struct {
	next    RouteUseCase
	metrics metrics.BusinessMetrics
}

// NewRouteUseCaseWithMetrics wraps a RouteUseCase with metrics recording.
func NewRouteUseCaseWithMetrics(useCase RouteUseCase, m metrics.BusinessMetrics) RouteUseCase {
	return &routeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *routeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "routes", operation, status)
	r.metrics.RecordDuration(ctx, "routes", operation, time.Since(start), status)
}

// Create records metrics for route creation operations.
func (r *routeUseCaseWithMetrics) Create(
	ctx context.Context,
	input *routeDomain.CreateRouteInput,
) (*routeDomain.Route, error) {
	start := time.Now()
	route, err := r.next.Create(ctx, input)
	r.record(ctx, "route_create", start, err)
	return route, err
}

// List records metrics for route list operations.
func (r *routeUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error) {
	start := time.Now()
	routes, err := r.next.List(ctx, offset, limit)
	r.record(ctx, "route_list", start, err)
	return routes, err
}

// ListMatching records metrics for route matching lookups.
func (r *routeUseCaseWithMetrics) ListMatching(
	ctx context.Context,
	eventType string,
) ([]*routeDomain.Route, error) {
	start := time.Now()
	routes, err := r.next.ListMatching(ctx, eventType)
	r.record(ctx, "route_list_matching", start, err)
	return routes, err
}
