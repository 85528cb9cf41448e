package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/evently/internal/errors"
	routeDomain "github.com/allisson/evently/internal/route/domain"
	"github.com/allisson/evently/internal/route/usecase"
	usecaseMocks "github.com/allisson/evently/internal/route/usecase/mocks"
)

func newCreateInput() *routeDomain.CreateRouteInput {
	return &routeDomain.CreateRouteInput{
		EventType:   "order.created",
		ActionType:  routeDomain.ActionWebhookDeliver,
		Destination: routeDomain.DestinationInput{URL: "https://example.com/hook"},
		MaxAttempts: 3,
		Backoff:     "1m,5m",
	}
}

func TestRouteUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreateRouteWithDefaults", func(t *testing.T) {
		repo := &usecaseMocks.MockRouteRepository{}
		uc := usecase.NewRouteUseCase(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(r *routeDomain.Route) bool {
			return r.EventType == "order.created" &&
				r.ActionType == routeDomain.ActionWebhookDeliver &&
				r.Enabled &&
				r.Destination.TimeoutMs == routeDomain.DefaultTimeoutMs &&
				r.RetryPolicy.RetryBudget() == 3 &&
				r.RetryPolicy.Backoff == "1m,5m"
		})).Return(nil).Once()

		route, err := uc.Create(ctx, newCreateInput())

		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), route.ID.Version())
		assert.False(t, route.CreatedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("Success_CreateDisabledRoute", func(t *testing.T) {
		repo := &usecaseMocks.MockRouteRepository{}
		uc := usecase.NewRouteUseCase(repo)

		disabled := false
		input := newCreateInput()
		input.Enabled = &disabled

		repo.On("Create", ctx, mock.MatchedBy(func(r *routeDomain.Route) bool {
			return !r.Enabled
		})).Return(nil).Once()

		route, err := uc.Create(ctx, input)

		require.NoError(t, err)
		assert.False(t, route.Enabled)
		repo.AssertExpectations(t)
	})

	t.Run("Error_ValidationFailsBeforeWrite", func(t *testing.T) {
		repo := &usecaseMocks.MockRouteRepository{}
		uc := usecase.NewRouteUseCase(repo)

		input := newCreateInput()
		input.MaxAttempts = 0

		route, err := uc.Create(ctx, input)

		assert.Nil(t, route)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_UnsupportedActionFailsBeforeWrite", func(t *testing.T) {
		repo := &usecaseMocks.MockRouteRepository{}
		uc := usecase.NewRouteUseCase(repo)

		input := newCreateInput()
		input.ActionType = "email.send"

		route, err := uc.Create(ctx, input)

		assert.Nil(t, route)
		assert.ErrorIs(t, err, routeDomain.ErrUnsupportedAction)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		repo := &usecaseMocks.MockRouteRepository{}
		uc := usecase.NewRouteUseCase(repo)

		repoErr := apperrors.Persistence(errors.New("connection reset"), "failed to create route")
		repo.On("Create", ctx, mock.Anything).Return(repoErr).Once()

		route, err := uc.Create(ctx, newCreateInput())

		assert.Nil(t, route)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		repo.AssertExpectations(t)
	})
}

func TestRouteUseCase_List(t *testing.T) {
	ctx := context.Background()
	repo := &usecaseMocks.MockRouteRepository{}
	uc := usecase.NewRouteUseCase(repo)

	routes := []*routeDomain.Route{{EventType: "a"}, {EventType: "b"}}
	repo.On("List", ctx, 0, 100).Return(routes, nil).Once()

	result, err := uc.List(ctx, 0, 100)

	require.NoError(t, err)
	assert.Equal(t, routes, result)
	repo.AssertExpectations(t)
}

func TestRouteUseCase_ListMatching(t *testing.T) {
	ctx := context.Background()
	repo := &usecaseMocks.MockRouteRepository{}
	uc := usecase.NewRouteUseCase(repo)

	routes := []*routeDomain.Route{{EventType: "order.created", Enabled: true}}
	repo.On("ListMatching", ctx, "order.created").Return(routes, nil).Once()

	result, err := uc.ListMatching(ctx, "order.created")

	require.NoError(t, err)
	assert.Equal(t, routes, result)
	repo.AssertExpectations(t)
}
