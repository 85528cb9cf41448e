package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventDomain "github.com/allisson/evently/internal/event/domain"
	apperrors "github.com/allisson/evently/internal/errors"
	"github.com/allisson/evently/internal/testutil"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func strPtr(s string) *string { return &s }

func TestPostgreSQLEventRepository_Record_Mock(t *testing.T) {
	t.Run("Success_Inserted", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLEventRepository(db)
		event := eventDomain.New("order.created", json.RawMessage(`{"id":1}`), nil)

		mock.ExpectQuery("INSERT INTO events (.+) ON CONFLICT \\(type, idempotency_key\\)").
			WithArgs(event.ID, "order.created", `{"id":1}`, nil, event.CreatedAt, event.UpdatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(event.ID.String(), true))

		id, inserted, err := repo.Record(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, event.ID, id)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_ExistingKeyReturnsExistingID", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLEventRepository(db)
		event := eventDomain.New("order.created", json.RawMessage(`{"id":2}`), strPtr("k-1"))
		existing := uuid.Must(uuid.NewV7())

		mock.ExpectQuery("INSERT INTO events").
			WithArgs(event.ID, "order.created", `{"id":2}`, "k-1", event.CreatedAt, event.UpdatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(existing.String(), false))

		id, inserted, err := repo.Record(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, existing, id)
		assert.False(t, inserted)
	})

	t.Run("Error_Persistence", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLEventRepository(db)

		mock.ExpectQuery("INSERT INTO events").WillReturnError(errors.New("server closed the connection"))

		id, _, err := repo.Record(context.Background(), eventDomain.New("a", json.RawMessage(`1`), nil))
		assert.Equal(t, uuid.Nil, id)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
	})
}

func TestPostgreSQLEventRepository_Record(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLEventRepository(db)
	ctx := context.Background()

	t.Run("KeylessEventsAreNeverDeduplicated", func(t *testing.T) {
		first := eventDomain.New("order.created", json.RawMessage(`{"n":1}`), nil)
		second := eventDomain.New("order.created", json.RawMessage(`{"n":1}`), nil)

		id1, inserted1, err := repo.Record(ctx, first)
		require.NoError(t, err)
		id2, inserted2, err := repo.Record(ctx, second)
		require.NoError(t, err)

		assert.True(t, inserted1)
		assert.True(t, inserted2)
		assert.NotEqual(t, id1, id2)
	})

	t.Run("SameKeyUpdatesPayload", func(t *testing.T) {
		first := eventDomain.New("invoice.paid", json.RawMessage(`{"v":1}`), strPtr("dup"))
		second := eventDomain.New("invoice.paid", json.RawMessage(`{"v":2}`), strPtr("dup"))

		id1, inserted1, err := repo.Record(ctx, first)
		require.NoError(t, err)
		id2, inserted2, err := repo.Record(ctx, second)
		require.NoError(t, err)

		assert.True(t, inserted1)
		assert.False(t, inserted2)
		assert.Equal(t, id1, id2)

		var payload string
		err = db.QueryRow("SELECT payload::text FROM events WHERE id = $1", id1).Scan(&payload)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, payload)
	})

	t.Run("SameKeyDifferentTypeIsDistinct", func(t *testing.T) {
		a := eventDomain.New("type.a", json.RawMessage(`{"v":1}`), strPtr("shared"))
		b := eventDomain.New("type.b", json.RawMessage(`{"v":1}`), strPtr("shared"))

		idA, _, err := repo.Record(ctx, a)
		require.NoError(t, err)
		idB, insertedB, err := repo.Record(ctx, b)
		require.NoError(t, err)

		assert.True(t, insertedB)
		assert.NotEqual(t, idA, idB)
	})
}
