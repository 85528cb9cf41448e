package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/evently/internal/database/mocks"
	eventDomain "github.com/allisson/evently/internal/event/domain"
	apperrors "github.com/allisson/evently/internal/errors"
	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
	"github.com/allisson/evently/internal/ingest/usecase"
	usecaseMocks "github.com/allisson/evently/internal/ingest/usecase/mocks"
	jobDomain "github.com/allisson/evently/internal/job/domain"
	routeDomain "github.com/allisson/evently/internal/route/domain"
)

type fixture struct {
	txManager *databaseMocks.MockTxManager
	eventRepo *usecaseMocks.MockEventRepository
	routeRepo *usecaseMocks.MockRouteRepository
	jobRepo   *usecaseMocks.MockJobRepository
	uc        usecase.IngestUseCase
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		txManager: databaseMocks.NewMockTxManager(t),
		eventRepo: &usecaseMocks.MockEventRepository{},
		routeRepo: &usecaseMocks.MockRouteRepository{},
		jobRepo:   &usecaseMocks.MockJobRepository{},
	}
	f.uc = usecase.NewIngestUseCase(f.txManager, f.eventRepo, f.routeRepo, f.jobRepo, nil)
	t.Cleanup(func() {
		f.eventRepo.AssertExpectations(t)
		f.routeRepo.AssertExpectations(t)
		f.jobRepo.AssertExpectations(t)
	})
	return f
}

func newRoute(policy routeDomain.RetryPolicy) *routeDomain.Route {
	return &routeDomain.Route{
		ID:          uuid.Must(uuid.NewV7()),
		EventType:   "order.created",
		ActionType:  routeDomain.ActionWebhookDeliver,
		Destination: routeDomain.Destination{URL: "https://example.com/hook", TimeoutMs: 3000},
		RetryPolicy: policy,
		Enabled:     true,
		CreatedAt:   time.Now().UTC(),
	}
}

func newInput(key *string) *ingestDomain.CreateEventInput {
	return &ingestDomain.CreateEventInput{
		Type:           "order.created",
		Payload:        json.RawMessage(`{"order_id":42}`),
		IdempotencyKey: key,
	}
}

func strPtr(s string) *string { return &s }

func TestIngestUseCase_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FanOutPerMatchingRoute", func(t *testing.T) {
		f := newFixture(t)
		eventID := uuid.Must(uuid.NewV7())
		valid := newRoute(routeDomain.NewRetryPolicy(3, ""))
		invalid := newRoute(routeDomain.DecodeRetryPolicy([]byte(`{"max_attempts":"three"}`)))
		absent := newRoute(routeDomain.DecodeRetryPolicy([]byte(`{}`)))
		serialized := newRoute(routeDomain.DecodeRetryPolicy([]byte(`"{\"max_attempts\":7}"`)))
		routes := []*routeDomain.Route{valid, invalid, absent, serialized}
		wantBudget := map[uuid.UUID]int{valid.ID: 3, invalid.ID: 5, absent.ID: 5, serialized.ID: 7}

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.eventRepo.On("Record", ctx, mock.MatchedBy(func(e *eventDomain.Event) bool {
			return e.Type == "order.created" && string(e.Payload) == `{"order_id":42}` && e.IdempotencyKey == nil
		})).Return(eventID, true, nil).Once()
		f.routeRepo.On("ListMatching", ctx, "order.created").Return(routes, nil).Once()

		var jobIDs []uuid.UUID
		f.jobRepo.On("Create", ctx, mock.MatchedBy(func(j *jobDomain.Job) bool {
			return j.EventID == eventID &&
				j.Status == jobDomain.StatusQueued &&
				j.Attempt == 0 &&
				j.ActionType == "webhook.deliver" &&
				string(j.Payload) == `{"order_id":42}` &&
				j.MaxAttempts == wantBudget[j.RouteID]
		})).Return(func(_ context.Context, j *jobDomain.Job) (uuid.UUID, bool, error) {
			jobIDs = append(jobIDs, j.ID)
			return j.ID, true, nil
		}).Times(4)

		result, err := f.uc.CreateEvent(ctx, newInput(nil))

		require.NoError(t, err)
		assert.Equal(t, eventID, result.EventID)
		assert.Equal(t, jobIDs, result.JobIDs)
		assert.Len(t, result.JobIDs, 4)
		assert.Equal(t, 4, result.CreatedJobs)
		assert.False(t, result.Replayed)
	})

	t.Run("Success_NoMatchingRoutes", func(t *testing.T) {
		f := newFixture(t)
		eventID := uuid.Must(uuid.NewV7())

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.eventRepo.On("Record", ctx, mock.Anything).Return(eventID, true, nil).Once()
		f.routeRepo.On("ListMatching", ctx, "order.created").Return([]*routeDomain.Route{}, nil).Once()

		result, err := f.uc.CreateEvent(ctx, newInput(nil))

		require.NoError(t, err)
		assert.Equal(t, eventID, result.EventID)
		assert.NotNil(t, result.JobIDs)
		assert.Empty(t, result.JobIDs)
	})

	t.Run("Success_ReplayReturnsExistingJobs", func(t *testing.T) {
		f := newFixture(t)
		eventID := uuid.Must(uuid.NewV7())
		existingJob := uuid.Must(uuid.NewV7())
		old := newRoute(routeDomain.NewRetryPolicy(2, ""))
		added := newRoute(routeDomain.NewRetryPolicy(2, ""))

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.eventRepo.On("Record", ctx, mock.MatchedBy(func(e *eventDomain.Event) bool {
			return e.IdempotencyKey != nil && *e.IdempotencyKey == "k-1"
		})).Return(eventID, false, nil).Once()
		f.routeRepo.On("ListMatching", ctx, "order.created").
			Return([]*routeDomain.Route{old, added}, nil).
			Once()
		f.jobRepo.On("Create", ctx, mock.MatchedBy(func(j *jobDomain.Job) bool {
			return j.RouteID == old.ID
		})).Return(existingJob, false, nil).Once()
		f.jobRepo.On("Create", ctx, mock.MatchedBy(func(j *jobDomain.Job) bool {
			return j.RouteID == added.ID
		})).Return(func(_ context.Context, j *jobDomain.Job) (uuid.UUID, bool, error) {
			return j.ID, true, nil
		}).Once()

		result, err := f.uc.CreateEvent(ctx, newInput(strPtr("k-1")))

		require.NoError(t, err)
		assert.True(t, result.Replayed)
		require.Len(t, result.JobIDs, 2)
		assert.Equal(t, existingJob, result.JobIDs[0])
		assert.NotEqual(t, existingJob, result.JobIDs[1])
		assert.Equal(t, 1, result.CreatedJobs)
	})

	t.Run("Error_ValidationSkipsTransaction", func(t *testing.T) {
		f := newFixture(t)

		inputs := []*ingestDomain.CreateEventInput{
			{Type: "", Payload: json.RawMessage(`{"a":1}`)},
			{Type: "order.created", Payload: nil},
			{Type: "order.created", Payload: json.RawMessage(`null`)},
			{Type: "order.created", Payload: json.RawMessage(`{}`)},
			{Type: "order.created", Payload: json.RawMessage(`{"a":`)},
		}
		for _, input := range inputs {
			result, err := f.uc.CreateEvent(ctx, input)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		}
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("Error_JobInsertAbortsUnit", func(t *testing.T) {
		f := newFixture(t)
		eventID := uuid.Must(uuid.NewV7())
		first := newRoute(routeDomain.NewRetryPolicy(1, ""))
		second := newRoute(routeDomain.NewRetryPolicy(1, ""))
		third := newRoute(routeDomain.NewRetryPolicy(1, ""))
		storageErr := apperrors.Persistence(errors.New("connection reset"), "failed to create job")

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.eventRepo.On("Record", ctx, mock.Anything).Return(eventID, true, nil).Once()
		f.routeRepo.On("ListMatching", ctx, "order.created").
			Return([]*routeDomain.Route{first, second, third}, nil).
			Once()
		f.jobRepo.On("Create", ctx, mock.MatchedBy(func(j *jobDomain.Job) bool {
			return j.RouteID == first.ID
		})).Return(uuid.Must(uuid.NewV7()), true, nil).Once()
		f.jobRepo.On("Create", ctx, mock.MatchedBy(func(j *jobDomain.Job) bool {
			return j.RouteID == second.ID
		})).Return(uuid.Nil, false, storageErr).Once()

		result, err := f.uc.CreateEvent(ctx, newInput(nil))

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		f.jobRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("Error_ConflictPassesThrough", func(t *testing.T) {
		f := newFixture(t)
		conflict := errors.Join(apperrors.ErrConflict, errors.New("duplicate key"))

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.eventRepo.On("Record", ctx, mock.Anything).Return(uuid.Nil, false, conflict).Once()

		_, err := f.uc.CreateEvent(ctx, newInput(strPtr("k-1")))

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.NotErrorIs(t, err, apperrors.ErrPersistence)
	})

	t.Run("Error_UnclassifiedBecomesPersistence", func(t *testing.T) {
		f := newFixture(t)
		cause := errors.New("route lookup exploded")

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.eventRepo.On("Record", ctx, mock.Anything).Return(uuid.Must(uuid.NewV7()), true, nil).Once()
		f.routeRepo.On("ListMatching", ctx, "order.created").Return(nil, cause).Once()

		_, err := f.uc.CreateEvent(ctx, newInput(nil))

		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Error_BeginFails", func(t *testing.T) {
		f := newFixture(t)
		beginErr := apperrors.Persistence(errors.New("too many connections"), "failed to begin transaction")

		f.txManager.On("WithTx", ctx, mock.Anything).Return(beginErr).Once()

		_, err := f.uc.CreateEvent(ctx, newInput(nil))

		assert.ErrorIs(t, err, apperrors.ErrPersistence)
	})
}
