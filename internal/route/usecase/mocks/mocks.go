// Package mocks provides mock implementations of route usecase interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// MockRouteUseCase is a mock implementation of RouteUseCase.
type MockRouteUseCase struct {
	mock.Mock
}

// Create mocks the Create method of RouteUseCase.
func (m *MockRouteUseCase) Create(
	ctx context.Context,
	input *routeDomain.CreateRouteInput,
) (*routeDomain.Route, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routeDomain.Route), args.Error(1)
}

// List mocks the List method of RouteUseCase.
func (m *MockRouteUseCase) List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*routeDomain.Route), args.Error(1)
}

// ListMatching mocks the ListMatching method of RouteUseCase.
func (m *MockRouteUseCase) ListMatching(ctx context.Context, eventType string) ([]*routeDomain.Route, error) {
	args := m.Called(ctx, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*routeDomain.Route), args.Error(1)
}

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mock.Mock
}

// Create mocks the Create method of RouteRepository.
func (m *MockRouteRepository) Create(ctx context.Context, route *routeDomain.Route) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

// List mocks the List method of RouteRepository.
func (m *MockRouteRepository) List(ctx context.Context, offset, limit int) ([]*routeDomain.Route, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*routeDomain.Route), args.Error(1)
}

// ListMatching mocks the ListMatching method of RouteRepository.
func (m *MockRouteRepository) ListMatching(ctx context.Context, eventType string) ([]*routeDomain.Route, error) {
	args := m.Called(ctx, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*routeDomain.Route), args.Error(1)
}
