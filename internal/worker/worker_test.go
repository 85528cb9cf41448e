package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	jobDomain "github.com/allisson/evently/internal/job/domain"
	"github.com/allisson/evently/internal/metrics"
)

type mockJobCounter struct {
	mock.Mock
}

func (m *mockJobCounter) CountByStatus(ctx context.Context, status jobDomain.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockBusinessMetrics struct {
	metrics.BusinessMetrics
	mock.Mock
}

func (m *mockBusinessMetrics) RecordQueueDepth(ctx context.Context, status string, depth int64) {
	m.Called(ctx, status, depth)
}

type staticLiveness bool

func (s staticLiveness) Alive() bool { return bool(s) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorker_Probe(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		counter := &mockJobCounter{}
		m := &mockBusinessMetrics{}
		w := NewWorker(Config{ProbeInterval: time.Second}, counter, m, discardLogger())

		counter.On("CountByStatus", ctx, jobDomain.StatusQueued).Return(int64(4), nil).Once()
		counter.On("CountByStatus", ctx, jobDomain.StatusProcessing).Return(int64(1), nil).Once()
		m.On("RecordQueueDepth", ctx, "queued", int64(4)).Return().Once()
		m.On("RecordQueueDepth", ctx, "processing", int64(1)).Return().Once()

		require.NoError(t, w.Probe(ctx))
		counter.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		counter := &mockJobCounter{}
		m := &mockBusinessMetrics{}
		w := NewWorker(Config{ProbeInterval: time.Second}, counter, m, nil)
		dbErr := errors.New("connection refused")

		counter.On("CountByStatus", ctx, jobDomain.StatusQueued).Return(int64(0), dbErr).Once()

		assert.ErrorIs(t, w.Probe(ctx), dbErr)
		m.AssertNotCalled(t, "RecordQueueDepth", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWorker_StartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	counter := &mockJobCounter{}
	m := &mockBusinessMetrics{}
	var probes atomic.Int64
	counter.On("CountByStatus", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { probes.Add(1) }).
		Return(int64(0), nil)
	m.On("RecordQueueDepth", mock.Anything, mock.Anything, mock.Anything).Return()

	w := NewWorker(Config{ProbeInterval: 10 * time.Millisecond}, counter, m, discardLogger())
	assert.False(t, w.Alive())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool {
		return w.Alive() && probes.Load() >= 4
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.False(t, w.Alive())
}

func TestNewWorker_NonPositiveIntervalFallsBackToDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		w := NewWorker(Config{ProbeInterval: interval}, &mockJobCounter{}, &mockBusinessMetrics{}, nil)
		assert.Equal(t, DefaultProbeInterval, w.config.ProbeInterval)
	}
}

func TestWorker_StartWithZeroIntervalDoesNotPanic(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	counter := &mockJobCounter{}
	m := &mockBusinessMetrics{}
	counter.On("CountByStatus", mock.Anything, mock.Anything).Return(int64(0), nil)
	m.On("RecordQueueDepth", mock.Anything, mock.Anything, mock.Anything).Return()

	w := NewWorker(Config{}, counter, m, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, w.Alive, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestHealthServer_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		alive  bool
		status int
		body   string
	}{
		{"alive", true, http.StatusOK, `{"ok":true}`},
		{"not started", false, http.StatusServiceUnavailable, `{"ok":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewHealthServer("localhost", 8090, staticLiveness(tt.alive), discardLogger())

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			server.GetHandler().ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
