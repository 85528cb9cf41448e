package dto

import (
	"time"

	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// RouteResponse represents a route in API responses. The destination secret is never returned.
type RouteResponse struct {
	ID          string                  `json:"id"`
	EventType   string                  `json:"event_type"`
	ActionType  string                  `json:"action_type"`
	Destination DestinationResponse     `json:"destination"`
	RetryPolicy routeDomain.RetryPolicy `json:"retry_policy"`
	Enabled     bool                    `json:"enabled"`
	CreatedAt   time.Time               `json:"created_at"`
}

// DestinationResponse is the public view of a destination.
type DestinationResponse struct {
	URL       string            `json:"url"`
	TimeoutMs int               `json:"timeout_ms"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// MapRouteToResponse converts a domain route to an API response.
func MapRouteToResponse(route *routeDomain.Route) RouteResponse {
	return RouteResponse{
		ID:         route.ID.String(),
		EventType:  route.EventType,
		ActionType: string(route.ActionType),
		Destination: DestinationResponse{
			URL:       route.Destination.URL,
			TimeoutMs: route.Destination.TimeoutMs,
			Headers:   route.Destination.Headers,
		},
		RetryPolicy: route.RetryPolicy,
		Enabled:     route.Enabled,
		CreatedAt:   route.CreatedAt,
	}
}

// ListRoutesResponse represents a page of routes in API responses.
type ListRoutesResponse struct {
	Data []RouteResponse `json:"data"`
}

// MapRoutesToListResponse converts a slice of domain routes to a list API response.
func MapRoutesToListResponse(routes []*routeDomain.Route) ListRoutesResponse {
	routeResponses := make([]RouteResponse, 0, len(routes))
	for _, route := range routes {
		routeResponses = append(routeResponses, MapRouteToResponse(route))
	}
	return ListRoutesResponse{
		Data: routeResponses,
	}
}
