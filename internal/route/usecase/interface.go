// Package usecase defines business logic interfaces for route registry operations.
package usecase

import (
	"context"

	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// RouteRepository defines persistence operations for routes.
// Implementations must support transaction-aware operations via context propagation.
type RouteRepository interface {
	// Create stores a new route.
	Create(ctx context.Context, route *routeDomain.Route) error

	// List returns routes ordered by creation time descending with pagination support.
	List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error)

	// ListMatching returns enabled routes for the event type ordered by (created_at, id).
	ListMatching(ctx context.Context, eventType string) ([]*routeDomain.Route, error)
}

// RouteUseCase defines business logic operations for the route registry.
type RouteUseCase interface {
	// Create validates and persists a new route. Returns an error wrapping ErrInvalidInput for
	// malformed input and ErrUnsupportedAction when the action type is not registered.
	Create(ctx context.Context, input *routeDomain.CreateRouteInput) (*routeDomain.Route, error)

	// List retrieves the most recent routes with pagination support.
	List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error)

	// ListMatching retrieves the enabled routes an event of the given type fans out to.
	ListMatching(ctx context.Context, eventType string) ([]*routeDomain.Route, error)
}
