package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// routeUseCase implements RouteUseCase.
type routeUseCase struct {
	routeRepo RouteRepository
}

// Create validates the input, checks the action registry and persists the route.
func (r *routeUseCase) Create(
	ctx context.Context,
	input *routeDomain.CreateRouteInput,
) (*routeDomain.Route, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := input.ActionType.CheckSupported(); err != nil {
		return nil, err
	}

	route := &routeDomain.Route{
		ID:          uuid.Must(uuid.NewV7()),
		EventType:   input.EventType,
		ActionType:  input.ActionType,
		Destination: input.Destination.Destination(),
		RetryPolicy: routeDomain.NewRetryPolicy(input.MaxAttempts, input.Backoff),
		Enabled:     input.IsEnabled(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	return route, nil
}

// List retrieves routes most recent first. Returns empty slice if none exist.
func (r *routeUseCase) List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error) {
	return r.routeRepo.List(ctx, offset, limit)
}

// ListMatching retrieves enabled routes for eventType.
func (r *routeUseCase) ListMatching(ctx context.Context, eventType string) ([]*routeDomain.Route, error) {
	return r.routeRepo.ListMatching(ctx, eventType)
}

// NewRouteUseCase creates a new RouteUseCase with the provided dependencies.
func NewRouteUseCase(routeRepo RouteRepository) RouteUseCase {
	return &routeUseCase{routeRepo: routeRepo}
}
