// Package repository implements event persistence with idempotency-key deduplication.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/evently/internal/database"
	eventDomain "github.com/allisson/evently/internal/event/domain"
)

// PostgreSQLEventRepository implements Event persistence for PostgreSQL.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// Record inserts the event, or when an event with the same (type, idempotency_key) exists,
// overwrites its payload. Returns the stored event ID and whether a new row was inserted.
// Events without a key never conflict because the unique index is partial.
func (p *PostgreSQLEventRepository) Record(
	ctx context.Context,
	event *eventDomain.Event,
) (uuid.UUID, bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO events (id, type, payload, idempotency_key, created_at, updated_at)
			  VALUES ($1, $2, $3::jsonb, $4, $5, $6)
			  ON CONFLICT (type, idempotency_key) WHERE idempotency_key IS NOT NULL
			  DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
			  RETURNING id, (xmax = 0) AS inserted`

	var id uuid.UUID
	var inserted bool

	err := querier.QueryRowContext(
		ctx,
		query,
		event.ID,
		event.Type,
		string(event.Payload),
		event.IdempotencyKey,
		event.CreatedAt,
		event.UpdatedAt,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to record event")
	}

	return id, inserted, nil
}

// NewPostgreSQLEventRepository creates a new PostgreSQL Event repository.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}
