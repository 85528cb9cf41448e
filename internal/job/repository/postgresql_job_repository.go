// Package repository implements job persistence for fan-out and the delivery worker.
//
// Create and CountByStatus are used in-process by fan-out and the queue-depth report. ClaimNext
// and UpdateStatus have no caller in this module; they are the storage contract for the external
// delivery process that claims and completes jobs.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/evently/internal/database"
	jobDomain "github.com/allisson/evently/internal/job/domain"
)

const jobColumns = `id, event_id, route_id, action_type, payload, status, attempt, max_attempts, last_error, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLJobRepository implements Job persistence for PostgreSQL.
type PostgreSQLJobRepository struct {
	db *sql.DB
}

// Create inserts a queued job. When a job already exists for the same (event_id, route_id) the
// existing row is left untouched and its ID is returned with created set to false.
func (p *PostgreSQLJobRepository) Create(ctx context.Context, job *jobDomain.Job) (uuid.UUID, bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO jobs (id, event_id, route_id, action_type, payload, status, attempt, max_attempts, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10)
			  ON CONFLICT (event_id, route_id) DO NOTHING
			  RETURNING id`

	var id uuid.UUID
	err := querier.QueryRowContext(
		ctx,
		query,
		job.ID,
		job.EventID,
		job.RouteID,
		job.ActionType,
		string(job.Payload),
		string(job.Status),
		job.Attempt,
		job.MaxAttempts,
		job.CreatedAt,
		job.UpdatedAt,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, database.ClassifyError(err, "failed to create job")
	}

	err = querier.QueryRowContext(
		ctx,
		`SELECT id FROM jobs WHERE event_id = $1 AND route_id = $2`,
		job.EventID,
		job.RouteID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, database.ClassifyError(err, "failed to load existing job")
	}

	return id, false, nil
}

// ClaimNext moves the oldest queued job to processing and increments its attempt counter.
// Rows locked by other claimers are skipped. Returns false when no job is queued.
func (p *PostgreSQLJobRepository) ClaimNext(ctx context.Context) (*jobDomain.Job, bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE jobs
			  SET status = $1, attempt = attempt + 1, updated_at = $2
			  WHERE id = (
				  SELECT id FROM jobs
				  WHERE status = $3
				  ORDER BY created_at ASC, id ASC
				  LIMIT 1
				  FOR UPDATE SKIP LOCKED
			  )
			  RETURNING ` + jobColumns

	job, err := scanPostgreSQLJob(querier.QueryRowContext(
		ctx,
		query,
		string(jobDomain.StatusProcessing),
		time.Now().UTC(),
		string(jobDomain.StatusQueued),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, database.ClassifyError(err, "failed to claim job")
	}

	return job, true, nil
}

// UpdateStatus moves a job to status, recording lastError. The change is applied only when
// jobDomain.CanTransition allows it from the stored status.
func (p *PostgreSQLJobRepository) UpdateStatus(
	ctx context.Context,
	jobID uuid.UUID,
	status jobDomain.Status,
	lastError *string,
) error {
	if !status.IsValid() {
		return jobDomain.ErrInvalidStatus
	}
	querier := database.GetTx(ctx, p.db)

	from := jobDomain.Predecessors(status)
	args := []any{string(status), lastError, time.Now().UTC(), jobID}
	placeholders := make([]string, 0, len(from))
	for _, s := range from {
		args = append(args, string(s))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := `UPDATE jobs SET status = $1, last_error = $2, updated_at = $3
			  WHERE id = $4 AND status IN (` + strings.Join(placeholders, ", ") + `)`

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return database.ClassifyError(err, "failed to update job status")
	}

	return checkTransition(ctx, result, func() error {
		var current string
		return querier.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = $1`, jobID).Scan(&current)
	})
}

// CountByStatus returns the number of jobs in status.
func (p *PostgreSQLJobRepository) CountByStatus(ctx context.Context, status jobDomain.Status) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		return 0, database.ClassifyError(err, "failed to count jobs")
	}
	return count, nil
}

func scanPostgreSQLJob(row rowScanner) (*jobDomain.Job, error) {
	var job jobDomain.Job
	var status string
	var payload []byte

	if err := row.Scan(
		&job.ID,
		&job.EventID,
		&job.RouteID,
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

	job.Status = jobDomain.Status(status)
	job.Payload = payload
	return &job, nil
}

// checkTransition turns "no row updated" into ErrJobNotFound or ErrInvalidTransition.
func checkTransition(ctx context.Context, result sql.Result, lookup func() error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return database.ClassifyError(err, "failed to update job status")
	}
	if affected > 0 {
		return nil
	}

	if err := lookup(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jobDomain.ErrJobNotFound
		}
		return database.ClassifyError(err, "failed to load job status")
	}
	return jobDomain.ErrInvalidTransition
}

// NewPostgreSQLJobRepository creates a new PostgreSQL Job repository.
func NewPostgreSQLJobRepository(db *sql.DB) *PostgreSQLJobRepository {
	return &PostgreSQLJobRepository{db: db}
}
