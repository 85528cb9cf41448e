// Package mocks provides mock implementations of database interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager.
// When the configured return value is nil, fn is executed so the logic inside runs under test.
type MockTxManager struct {
	mock.Mock
}

// WithTx records the call and runs fn unless an error was configured.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// NewMockTxManager creates a MockTxManager and registers expectation assertions on cleanup.
func NewMockTxManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTxManager {
	m := &MockTxManager{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
