package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/allisson/evently/internal/httputil"
	routeHTTPDTO "github.com/allisson/evently/internal/route/http/dto"
	routeUseCase "github.com/allisson/evently/internal/route/usecase"
)

// RunListRoutes prints the most recent routes in text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunListRoutes(
	ctx context.Context,
	routeUseCase routeUseCase.RouteUseCase,
	logger *slog.Logger,
	offset, limit int,
	format string,
	writer io.Writer,
) error {
	if offset < 0 {
		return fmt.Errorf("offset must not be negative, got: %d", offset)
	}
	if limit < 1 || limit > httputil.MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d, got: %d", httputil.MaxLimit, limit)
	}

	routes, err := routeUseCase.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, routeHTTPDTO.MapRoutesToListResponse(routes)); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tEVENT TYPE\tACTION\tURL\tMAX ATTEMPTS\tENABLED")
		for _, route := range routes {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n",
				route.ID.String(),
				route.EventType,
				route.ActionType,
				route.Destination.URL,
				route.RetryPolicy.RetryBudget(),
				route.Enabled,
			)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write routes: %w", err)
		}
	}

	logger.Debug("routes listed", slog.Int("count", len(routes)))

	return nil
}
