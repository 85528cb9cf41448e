package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/evently/cmd/app/commands"
	"github.com/allisson/evently/internal/app"
	"github.com/allisson/evently/internal/config"
	routeDomain "github.com/allisson/evently/internal/route/domain"
)

func getRouteCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-route",
			Usage: "Register a route that fans events of a type out into jobs",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "event-type",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Event type to match (e.g., order.created)",
				},
				&cli.StringFlag{
					Name:    "action-type",
					Aliases: []string{"a"},
					Value:   string(routeDomain.ActionWebhookDeliver),
					Usage:   "Action to perform for each matching event",
				},
				&cli.StringFlag{
					Name:     "url",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Destination URL",
				},
				&cli.IntFlag{
					Name:  "timeout-ms",
					Value: routeDomain.DefaultTimeoutMs,
					Usage: "Destination timeout in milliseconds",
				},
				&cli.StringSliceFlag{
					Name:    "header",
					Aliases: []string{"H"},
					Usage:   "Destination header in 'Name: value' form (repeatable)",
				},
				&cli.IntFlag{
					Name:    "max-attempts",
					Aliases: []string{"m"},
					Value:   5,
					Usage:   "Maximum delivery attempts for jobs created by this route",
				},
				&cli.StringFlag{
					Name:  "backoff",
					Usage: "Backoff strategy recorded for the delivery worker",
				},
				&cli.BoolFlag{
					Name:  "disabled",
					Value: false,
					Usage: "Create the route disabled",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				routeUseCase, err := container.RouteUseCase()
				if err != nil {
					return err
				}

				timeoutMs := int(cmd.Int("timeout-ms"))
				enabled := !cmd.Bool("disabled")

				return commands.RunCreateRoute(
					ctx,
					routeUseCase,
					container.Logger(),
					commands.CreateRouteParams{
						EventType:   cmd.String("event-type"),
						ActionType:  cmd.String("action-type"),
						URL:         cmd.String("url"),
						TimeoutMs:   &timeoutMs,
						Headers:     cmd.StringSlice("header"),
						MaxAttempts: int(cmd.Int("max-attempts")),
						Backoff:     cmd.String("backoff"),
						Enabled:     &enabled,
					},
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "list-routes",
			Usage: "List the most recent routes",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "offset",
					Value: 0,
					Usage: "Number of routes to skip",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   50,
					Usage:   "Maximum number of routes to list (max 100)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				routeUseCase, err := container.RouteUseCase()
				if err != nil {
					return err
				}

				return commands.RunListRoutes(
					ctx,
					routeUseCase,
					container.Logger(),
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
