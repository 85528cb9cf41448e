// Package repository implements route persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID and JSONB types, MySQL uses BINARY(16) and JSON types.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/allisson/evently/internal/database"
	apperrors "github.com/allisson/evently/internal/errors"
	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLRouteRepository implements Route persistence for PostgreSQL.
type PostgreSQLRouteRepository struct {
	db *sql.DB
}

// Create inserts a new Route into the PostgreSQL database.
func (p *PostgreSQLRouteRepository) Create(ctx context.Context, route *routeDomain.Route) error {
	querier := database.GetTx(ctx, p.db)

	destination, retryPolicy, err := marshalRouteDocuments(route)
	if err != nil {
		return err
	}

	query := `INSERT INTO routes (id, event_type, action_type, destination, retry_policy, enabled, created_at)
			  VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		route.ID,
		route.EventType,
		string(route.ActionType),
		string(destination),
		string(retryPolicy),
		route.Enabled,
		route.CreatedAt,
	)
	if err != nil {
		return database.ClassifyError(err, "failed to create route")
	}
	return nil
}

// List retrieves routes ordered by creation time descending with pagination.
func (p *PostgreSQLRouteRepository) List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, event_type, action_type, destination, retry_policy, enabled, created_at
			  FROM routes
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, database.ClassifyError(err, "failed to list routes")
	}
	return collectRoutes(rows, p.scanRoute)
}

// ListMatching retrieves enabled routes for eventType ordered by (created_at, id).
func (p *PostgreSQLRouteRepository) ListMatching(
	ctx context.Context,
	eventType string,
) ([]*routeDomain.Route, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, event_type, action_type, destination, retry_policy, enabled, created_at
			  FROM routes
			  WHERE event_type = $1 AND enabled = TRUE
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, database.ClassifyError(err, "failed to list matching routes")
	}
	return collectRoutes(rows, p.scanMatchingRoute)
}

func (p *PostgreSQLRouteRepository) scanRoute(row rowScanner) (*routeDomain.Route, error) {
	return p.scan(row, decodeRouteDocuments)
}

// scanMatchingRoute never fails on a stored destination; fan-out only needs the route identity.
func (p *PostgreSQLRouteRepository) scanMatchingRoute(row rowScanner) (*routeDomain.Route, error) {
	return p.scan(row, decodeMatchingRouteDocuments)
}

func (p *PostgreSQLRouteRepository) scan(row rowScanner, decode routeDocumentsDecoder) (*routeDomain.Route, error) {
	var route routeDomain.Route
	var actionType string
	var destination, retryPolicy []byte

	if err := row.Scan(
		&route.ID,
		&route.EventType,
		&actionType,
		&destination,
		&retryPolicy,
		&route.Enabled,
		&route.CreatedAt,
	); err != nil {
		return nil, database.ClassifyError(err, "failed to scan route")
	}

	if err := decode(&route, destination, retryPolicy); err != nil {
		return nil, err
	}
	route.ActionType = routeDomain.ActionType(actionType)

	return &route, nil
}

// NewPostgreSQLRouteRepository creates a new PostgreSQL Route repository.
func NewPostgreSQLRouteRepository(db *sql.DB) *PostgreSQLRouteRepository {
	return &PostgreSQLRouteRepository{db: db}
}

func marshalRouteDocuments(route *routeDomain.Route) (destination, retryPolicy []byte, err error) {
	destination, err = json.Marshal(route.Destination)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal route destination")
	}
	retryPolicy, err = json.Marshal(route.RetryPolicy)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal route retry policy")
	}
	return destination, retryPolicy, nil
}

type routeDocumentsDecoder func(route *routeDomain.Route, destination, retryPolicy []byte) error

// decodeMatchingRouteDocuments fills the JSON-backed fields without ever failing.
func decodeMatchingRouteDocuments(route *routeDomain.Route, destination, retryPolicy []byte) error {
	route.Destination = routeDomain.DecodeDestinationLenient(destination)
	route.RetryPolicy = routeDomain.DecodeRetryPolicy(retryPolicy)
	return nil
}

// decodeRouteDocuments fills the JSON-backed fields. The retry policy never fails to decode;
// an unreadable destination is reported as a persistence error.
func decodeRouteDocuments(route *routeDomain.Route, destination, retryPolicy []byte) error {
	dest, err := routeDomain.DecodeDestination(destination)
	if err != nil {
		return apperrors.Persistence(err, "failed to decode route destination")
	}
	route.Destination = dest
	route.RetryPolicy = routeDomain.DecodeRetryPolicy(retryPolicy)
	return nil
}

func collectRoutes(
	rows *sql.Rows,
	scan func(rowScanner) (*routeDomain.Route, error),
) ([]*routeDomain.Route, error) {
	defer func() {
		_ = rows.Close()
	}()

	routes := make([]*routeDomain.Route, 0)
	for rows.Next() {
		route, err := scan(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, database.ClassifyError(err, "failed to iterate routes")
	}

	return routes, nil
}
