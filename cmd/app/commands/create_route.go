package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	routeDomain "github.com/allisson/evently/internal/route/domain"
	routeHTTPDTO "github.com/allisson/evently/internal/route/http/dto"
	routeUseCase "github.com/allisson/evently/internal/route/usecase"
)

// CreateRouteParams holds the command line values for a new route.
type CreateRouteParams struct {
	EventType   string
	ActionType  string
	URL         string
	TimeoutMs   *int
	Headers     []string
	MaxAttempts int
	Backoff     string
	Enabled     *bool
}

// RunCreateRoute registers a route and prints it in text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateRoute(
	ctx context.Context,
	routeUseCase routeUseCase.RouteUseCase,
	logger *slog.Logger,
	params CreateRouteParams,
	format string,
	writer io.Writer,
) error {
	logger.Info("creating new route",
		slog.String("event_type", params.EventType),
		slog.String("action_type", params.ActionType),
	)

	headers, err := parseHeaders(params.Headers)
	if err != nil {
		return err
	}

	input := &routeDomain.CreateRouteInput{
		EventType:  params.EventType,
		ActionType: routeDomain.ActionType(params.ActionType),
		Destination: routeDomain.DestinationInput{
			URL:       params.URL,
			TimeoutMs: params.TimeoutMs,
			Headers:   headers,
		},
		MaxAttempts: params.MaxAttempts,
		Backoff:     params.Backoff,
		Enabled:     params.Enabled,
	}

	route, err := routeUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, routeHTTPDTO.MapRouteToResponse(route)); err != nil {
			return err
		}
	} else {
		outputRouteText(route, writer)
	}

	logger.Info("route created successfully",
		slog.String("route_id", route.ID.String()),
		slog.String("event_type", route.EventType),
	)

	return nil
}

// outputRouteText outputs the created route in human-readable text format.
func outputRouteText(route *routeDomain.Route, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "Route created successfully!")
	_, _ = fmt.Fprintf(writer, "ID:           %s\n", route.ID.String())
	_, _ = fmt.Fprintf(writer, "Event type:   %s\n", route.EventType)
	_, _ = fmt.Fprintf(writer, "Action type:  %s\n", route.ActionType)
	_, _ = fmt.Fprintf(writer, "URL:          %s\n", route.Destination.URL)
	_, _ = fmt.Fprintf(writer, "Max attempts: %d\n", route.RetryPolicy.RetryBudget())
	_, _ = fmt.Fprintf(writer, "Enabled:      %t\n", route.Enabled)
}
