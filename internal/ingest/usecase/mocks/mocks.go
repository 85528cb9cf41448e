// Package mocks provides mock implementations of ingest usecase interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	eventDomain "github.com/allisson/evently/internal/event/domain"
	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
	jobDomain "github.com/allisson/evently/internal/job/domain"
	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// MockIngestUseCase is a mock implementation of IngestUseCase.
type MockIngestUseCase struct {
	mock.Mock
}

// CreateEvent mocks the CreateEvent method of IngestUseCase.
func (m *MockIngestUseCase) CreateEvent(
	ctx context.Context,
	input *ingestDomain.CreateEventInput,
) (*ingestDomain.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingestDomain.Result), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

// Record mocks the Record method of EventRepository.
func (m *MockEventRepository) Record(ctx context.Context, event *eventDomain.Event) (uuid.UUID, bool, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mock.Mock
}

// ListMatching mocks the ListMatching method of RouteRepository.
func (m *MockRouteRepository) ListMatching(ctx context.Context, eventType string) ([]*routeDomain.Route, error) {
	args := m.Called(ctx, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*routeDomain.Route), args.Error(1)
}

// MockJobRepository is a mock implementation of JobRepository.
type MockJobRepository struct {
	mock.Mock
}

// Create mocks the Create method of JobRepository. The first return value may be a
// func(context.Context, *jobDomain.Job) (uuid.UUID, bool, error) to derive the result from the job.
func (m *MockJobRepository) Create(ctx context.Context, job *jobDomain.Job) (uuid.UUID, bool, error) {
	args := m.Called(ctx, job)
	if fn, ok := args.Get(0).(func(context.Context, *jobDomain.Job) (uuid.UUID, bool, error)); ok {
		return fn(ctx, job)
	}
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}
