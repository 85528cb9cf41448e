package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/evently/internal/database"
	apperrors "github.com/allisson/evently/internal/errors"
	jobDomain "github.com/allisson/evently/internal/job/domain"
)

// MySQLJobRepository implements Job persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLJobRepository struct {
	db *sql.DB
}

// Create inserts a queued job. When a job already exists for the same (event_id, route_id) the
// existing row is left untouched and its ID is returned with created set to false.
// The no-op update keeps foreign key violations visible, which INSERT IGNORE would hide.
func (m *MySQLJobRepository) Create(ctx context.Context, job *jobDomain.Job) (uuid.UUID, bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, eventID, routeID, err := marshalJobIDs(job)
	if err != nil {
		return uuid.Nil, false, err
	}

	query := `INSERT INTO jobs (id, event_id, route_id, action_type, payload, status, attempt, max_attempts, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE id = id`

	result, err := querier.ExecContext(
		ctx,
		query,
		id,
		eventID,
		routeID,
		job.ActionType,
		[]byte(job.Payload),
		string(job.Status),
		job.Attempt,
		job.MaxAttempts,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to create job")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to create job")
	}
	if affected == 1 {
		return job.ID, true, nil
	}

	var idBytes []byte
	err = querier.QueryRowContext(
		ctx,
		`SELECT id FROM jobs WHERE event_id = ? AND route_id = ?`,
		eventID,
		routeID,
	).Scan(&idBytes)
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to load existing job")
	}

	var existingID uuid.UUID
	if err := existingID.UnmarshalBinary(idBytes); err != nil {
		return uuid.Nil, false, apperrors.Wrap(err, "failed to unmarshal job id")
	}

	return existingID, false, nil
}

// ClaimNext moves the oldest queued job to processing and increments its attempt counter.
// The row lock taken by SELECT ... FOR UPDATE only lasts until the statement's transaction
// ends, so callers must run it inside TxManager.WithTx. Returns false when no job is queued.
func (m *MySQLJobRepository) ClaimNext(ctx context.Context) (*jobDomain.Job, bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + jobColumns + `
			  FROM jobs
			  WHERE status = ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT 1
			  FOR UPDATE SKIP LOCKED`

	job, err := scanMySQLJob(querier.QueryRowContext(ctx, query, string(jobDomain.StatusQueued)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, database.ClassifyError(err, "failed to claim job")
	}

	idBytes, err := job.ID.MarshalBinary()
	if err != nil {
		return nil, false, apperrors.Wrap(err, "failed to marshal job id")
	}

	now := time.Now().UTC()
	_, err = querier.ExecContext(
		ctx,
		`UPDATE jobs SET status = ?, attempt = attempt + 1, updated_at = ? WHERE id = ?`,
		string(jobDomain.StatusProcessing),
		now,
		idBytes,
	)
	if err != nil {
		return nil, false, database.ClassifyError(err, "failed to claim job")
	}

	job.Status = jobDomain.StatusProcessing
	job.Attempt++
	job.UpdatedAt = now
	return job, true, nil
}

// UpdateStatus moves a job to status, recording lastError. The change is applied only when
// jobDomain.CanTransition allows it from the stored status.
func (m *MySQLJobRepository) UpdateStatus(
	ctx context.Context,
	jobID uuid.UUID,
	status jobDomain.Status,
	lastError *string,
) error {
	if !status.IsValid() {
		return jobDomain.ErrInvalidStatus
	}
	querier := database.GetTx(ctx, m.db)

	idBytes, err := jobID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal job id")
	}

	from := jobDomain.Predecessors(status)
	args := []any{string(status), lastError, time.Now().UTC(), idBytes}
	placeholders := make([]string, 0, len(from))
	for _, s := range from {
		args = append(args, string(s))
		placeholders = append(placeholders, "?")
	}

	query := `UPDATE jobs SET status = ?, last_error = ?, updated_at = ?
			  WHERE id = ? AND status IN (` + strings.Join(placeholders, ", ") + `)`

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return database.ClassifyError(err, "failed to update job status")
	}

	return checkTransition(ctx, result, func() error {
		var current string
		return querier.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = ?`, idBytes).Scan(&current)
	})
}

// CountByStatus returns the number of jobs in status.
func (m *MySQLJobRepository) CountByStatus(ctx context.Context, status jobDomain.Status) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE status = ?`, string(status)).Scan(&count)
	if err != nil {
		return 0, database.ClassifyError(err, "failed to count jobs")
	}
	return count, nil
}

func marshalJobIDs(job *jobDomain.Job) (id, eventID, routeID []byte, err error) {
	if id, err = job.ID.MarshalBinary(); err != nil {
		return nil, nil, nil, apperrors.Wrap(err, "failed to marshal job id")
	}
	if eventID, err = job.EventID.MarshalBinary(); err != nil {
		return nil, nil, nil, apperrors.Wrap(err, "failed to marshal event id")
	}
	if routeID, err = job.RouteID.MarshalBinary(); err != nil {
		return nil, nil, nil, apperrors.Wrap(err, "failed to marshal route id")
	}
	return id, eventID, routeID, nil
}

func scanMySQLJob(row rowScanner) (*jobDomain.Job, error) {
	var job jobDomain.Job
	var idBytes, eventIDBytes, routeIDBytes []byte
	var status string
	var payload []byte

	if err := row.Scan(
		&idBytes,
		&eventIDBytes,
		&routeIDBytes,
		&job.ActionType,
		&payload,
		&status,
		&job.Attempt,
		&job.MaxAttempts,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := job.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := job.EventID.UnmarshalBinary(eventIDBytes); err != nil {
		return nil, err
	}
	if err := job.RouteID.UnmarshalBinary(routeIDBytes); err != nil {
		return nil, err
	}

	job.Status = jobDomain.Status(status)
	job.Payload = payload
	return &job, nil
}

// NewMySQLJobRepository creates a new MySQL Job repository.
func NewMySQLJobRepository(db *sql.DB) *MySQLJobRepository {
	return &MySQLJobRepository{db: db}
}
