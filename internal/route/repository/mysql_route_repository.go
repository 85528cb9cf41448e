package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/evently/internal/database"
	apperrors "github.com/allisson/evently/internal/errors"
	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// MySQLRouteRepository implements Route persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLRouteRepository struct {
	db *sql.DB
}

// Create inserts a new Route into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLRouteRepository) Create(ctx context.Context, route *routeDomain.Route) error {
	querier := database.GetTx(ctx, m.db)

	destination, retryPolicy, err := marshalRouteDocuments(route)
	if err != nil {
		return err
	}

	id, err := route.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal route id")
	}

	query := `INSERT INTO routes (id, event_type, action_type, destination, retry_policy, enabled, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		route.EventType,
		string(route.ActionType),
		destination,
		retryPolicy,
		route.Enabled,
		route.CreatedAt,
	)
	if err != nil {
		return database.ClassifyError(err, "failed to create route")
	}
	return nil
}

// List retrieves routes ordered by creation time descending with pagination.
func (m *MySQLRouteRepository) List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, event_type, action_type, destination, retry_policy, enabled, created_at
			  FROM routes
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, database.ClassifyError(err, "failed to list routes")
	}
	return collectRoutes(rows, m.scanRoute)
}

// ListMatching retrieves enabled routes for eventType ordered by (created_at, id).
func (m *MySQLRouteRepository) ListMatching(
	ctx context.Context,
	eventType string,
) ([]*routeDomain.Route, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, event_type, action_type, destination, retry_policy, enabled, created_at
			  FROM routes
			  WHERE event_type = ? AND enabled = TRUE
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, database.ClassifyError(err, "failed to list matching routes")
	}
	return collectRoutes(rows, m.scanMatchingRoute)
}

func (m *MySQLRouteRepository) scanRoute(row rowScanner) (*routeDomain.Route, error) {
	return m.scan(row, decodeRouteDocuments)
}

// scanMatchingRoute never fails on a stored destination; fan-out only needs the route identity.
func (m *MySQLRouteRepository) scanMatchingRoute(row rowScanner) (*routeDomain.Route, error) {
	return m.scan(row, decodeMatchingRouteDocuments)
}

func (m *MySQLRouteRepository) scan(row rowScanner, decode routeDocumentsDecoder) (*routeDomain.Route, error) {
	var route routeDomain.Route
	var idBytes []byte
	var actionType string
	var destination, retryPolicy []byte

	if err := row.Scan(
		&idBytes,
		&route.EventType,
		&actionType,
		&destination,
		&retryPolicy,
		&route.Enabled,
		&route.CreatedAt,
	); err != nil {
		return nil, database.ClassifyError(err, "failed to scan route")
	}

	if err := route.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal route id")
	}
	if err := decode(&route, destination, retryPolicy); err != nil {
		return nil, err
	}
	route.ActionType = routeDomain.ActionType(actionType)

	return &route, nil
}

// NewMySQLRouteRepository creates a new MySQL Route repository.
func NewMySQLRouteRepository(db *sql.DB) *MySQLRouteRepository {
	return &MySQLRouteRepository{db: db}
}
