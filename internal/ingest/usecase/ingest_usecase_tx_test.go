package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/evently/internal/database"
	apperrors "github.com/allisson/evently/internal/errors"
	eventRepository "github.com/allisson/evently/internal/event/repository"
	"github.com/allisson/evently/internal/ingest/usecase"
	jobRepository "github.com/allisson/evently/internal/job/repository"
	routeRepository "github.com/allisson/evently/internal/route/repository"
)

var routeColumns = []string{
	"id", "event_type", "action_type", "destination", "retry_policy", "enabled", "created_at",
}

func newPostgreSQLIngest(t *testing.T) (usecase.IngestUseCase, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	uc := usecase.NewIngestUseCase(
		database.NewTxManager(db),
		eventRepository.NewPostgreSQLEventRepository(db),
		routeRepository.NewPostgreSQLRouteRepository(db),
		jobRepository.NewPostgreSQLJobRepository(db),
		nil,
	)
	return uc, mock
}

func TestIngestUseCase_CreateEvent_Transaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		uc, mock := newPostgreSQLIngest(t)
		eventID := uuid.Must(uuid.NewV7())
		routeID := uuid.Must(uuid.NewV7())
		jobID := uuid.Must(uuid.NewV7())

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO events").
			WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(eventID.String(), true))
		mock.ExpectQuery("SELECT (.+) FROM routes WHERE event_type = \\$1").
			WithArgs("order.created").
			WillReturnRows(sqlmock.NewRows(routeColumns).AddRow(
				routeID.String(), "order.created", "webhook.deliver",
				[]byte(`{"url":"https://example.com/hook"}`), []byte(`{"max_attempts":2}`), true, time.Now(),
			))
		mock.ExpectQuery("INSERT INTO jobs").
			WithArgs(sqlmock.AnyArg(), eventID, routeID, "webhook.deliver", `{"order_id":42}`, "queued", 0, 2,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(jobID.String()))
		mock.ExpectCommit()

		result, err := uc.CreateEvent(ctx, newInput(nil))

		require.NoError(t, err)
		assert.Equal(t, eventID, result.EventID)
		assert.Equal(t, []uuid.UUID{jobID}, result.JobIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackWhenSecondJobFails", func(t *testing.T) {
		uc, mock := newPostgreSQLIngest(t)
		eventID := uuid.Must(uuid.NewV7())
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO events").
			WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(eventID.String(), true))
		mock.ExpectQuery("SELECT (.+) FROM routes").
			WillReturnRows(sqlmock.NewRows(routeColumns).
				AddRow(uuid.Must(uuid.NewV7()).String(), "order.created", "webhook.deliver",
					[]byte(`{"url":"https://a.example"}`), []byte(`{"max_attempts":1}`), true, now).
				AddRow(uuid.Must(uuid.NewV7()).String(), "order.created", "webhook.deliver",
					[]byte(`{"url":"https://b.example"}`), []byte(`{}`), true, now))
		mock.ExpectQuery("INSERT INTO jobs").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.Must(uuid.NewV7()).String()))
		mock.ExpectQuery("INSERT INTO jobs").
			WithArgs(sqlmock.AnyArg(), eventID, sqlmock.AnyArg(), "webhook.deliver", `{"order_id":42}`, "queued", 0, 5,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(errors.New("connection reset by peer"))
		mock.ExpectRollback()

		result, err := uc.CreateEvent(ctx, newInput(nil))

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackWhenRouteLookupFails", func(t *testing.T) {
		uc, mock := newPostgreSQLIngest(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO events").
			WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(uuid.Must(uuid.NewV7()).String(), true))
		mock.ExpectQuery("SELECT (.+) FROM routes").WillReturnError(errors.New("statement timeout"))
		mock.ExpectRollback()

		_, err := uc.CreateEvent(ctx, newInput(strPtr("k-9")))

		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CanceledContextNeverBegins", func(t *testing.T) {
		uc, mock := newPostgreSQLIngest(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := uc.CreateEvent(canceled, newInput(nil))

		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
