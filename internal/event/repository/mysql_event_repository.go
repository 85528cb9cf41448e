package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/evently/internal/database"
	eventDomain "github.com/allisson/evently/internal/event/domain"
	apperrors "github.com/allisson/evently/internal/errors"
)

// MySQLEventRepository implements Event persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLEventRepository struct {
	db *sql.DB
}

// Record inserts the event, or when an event with the same (type, idempotency_key) exists,
// overwrites its payload and looks the existing ID up. MySQL reports one affected row for
// an insert and two (or zero when nothing changed) for an update.
func (m *MySQLEventRepository) Record(
	ctx context.Context,
	event *eventDomain.Event,
) (uuid.UUID, bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return uuid.Nil, false, apperrors.Wrap(err, "failed to marshal event id")
	}

	query := `INSERT INTO events (id, type, payload, idempotency_key, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`

	result, err := querier.ExecContext(
		ctx,
		query,
		id,
		event.Type,
		[]byte(event.Payload),
		event.IdempotencyKey,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to record event")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to record event")
	}
	if affected == 1 {
		return event.ID, true, nil
	}

	// Only keyed events can collide on the unique index.
	var idBytes []byte
	err = querier.QueryRowContext(
		ctx,
		`SELECT id FROM events WHERE type = ? AND idempotency_key = ?`,
		event.Type,
		event.IdempotencyKey,
	).Scan(&idBytes)
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to load existing event")
	}

	var existingID uuid.UUID
	if err := existingID.UnmarshalBinary(idBytes); err != nil {
		return uuid.Nil, false, apperrors.Wrap(err, "failed to unmarshal event id")
	}

	return existingID, false, nil
}

// NewMySQLEventRepository creates a new MySQL Event repository.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}
