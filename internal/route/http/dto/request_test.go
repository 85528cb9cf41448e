package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routeDomain "github.com/allisson/evently/internal/route/domain"
)

func decodeRequest(t *testing.T, body string) *CreateRouteRequest {
	t.Helper()
	var req CreateRouteRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestCreateRouteRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "Valid_Minimal",
			body: `{"event_type":"order.created","action_type":"webhook.deliver",
				"destination":{"url":"https://example.com"},"retry_policy":{"max_attempts":3}}`,
		},
		{
			name: "Valid_UnsupportedActionPassesStructuralValidation",
			body: `{"event_type":"order.created","action_type":"email.send",
				"destination":{"url":"https://example.com"},"retry_policy":{"max_attempts":3}}`,
		},
		{
			name: "Invalid_MissingEventType",
			body: `{"action_type":"webhook.deliver",
				"destination":{"url":"https://example.com"},"retry_policy":{"max_attempts":3}}`,
			wantErr: true,
		},
		{
			name: "Invalid_EventTypeTooLong",
			body: `{"event_type":"` + strings.Repeat("e", 256) + `","action_type":"webhook.deliver",
				"destination":{"url":"https://example.com"},"retry_policy":{"max_attempts":3}}`,
			wantErr: true,
		},
		{
			name: "Invalid_ActionTypeTooLong",
			body: `{"event_type":"order.created","action_type":"` + strings.Repeat("a", 256) + `",
				"destination":{"url":"https://example.com"},"retry_policy":{"max_attempts":3}}`,
			wantErr: true,
		},
		{
			name: "Invalid_MissingURL",
			body: `{"event_type":"order.created","action_type":"webhook.deliver",
				"destination":{},"retry_policy":{"max_attempts":3}}`,
			wantErr: true,
		},
		{
			name: "Invalid_ZeroTimeout",
			body: `{"event_type":"order.created","action_type":"webhook.deliver",
				"destination":{"url":"https://example.com","timeout_ms":0},"retry_policy":{"max_attempts":3}}`,
			wantErr: true,
		},
		{
			name: "Invalid_MissingRetryPolicy",
			body: `{"event_type":"order.created","action_type":"webhook.deliver",
				"destination":{"url":"https://example.com"}}`,
			wantErr: true,
		},
		{
			name: "Invalid_NegativeMaxAttempts",
			body: `{"event_type":"order.created","action_type":"webhook.deliver",
				"destination":{"url":"https://example.com"},"retry_policy":{"max_attempts":-1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeRequest(t, tt.body).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateRouteRequest_ToInput(t *testing.T) {
	req := decodeRequest(t, `{"event_type":"order.created","action_type":"webhook.deliver",
		"destination":{"url":"https://example.com","timeout_ms":250,"headers":{"X-A":"b"}},
		"retry_policy":{"max_attempts":2,"backoff":"1m"},"enabled":false}`)

	input := req.ToInput()

	assert.Equal(t, "order.created", input.EventType)
	assert.Equal(t, routeDomain.ActionWebhookDeliver, input.ActionType)
	require.NotNil(t, input.Destination.TimeoutMs)
	assert.Equal(t, 250, *input.Destination.TimeoutMs)
	assert.Equal(t, "b", input.Destination.Headers["X-A"])
	assert.Equal(t, 2, input.MaxAttempts)
	assert.Equal(t, "1m", input.Backoff)
	assert.False(t, input.IsEnabled())
}

func TestMapRouteToResponse(t *testing.T) {
	route := &routeDomain.Route{
		ID:         uuid.Must(uuid.NewV7()),
		EventType:  "order.created",
		ActionType: routeDomain.ActionWebhookDeliver,
		Destination: routeDomain.Destination{
			URL:       "https://example.com",
			TimeoutMs: 3000,
			Secret:    "shh",
		},
		RetryPolicy: routeDomain.NewRetryPolicy(5, ""),
		Enabled:     true,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(MapRouteToResponse(route))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "`+route.ID.String()+`",
		"event_type": "order.created",
		"action_type": "webhook.deliver",
		"destination": {"url": "https://example.com", "timeout_ms": 3000},
		"retry_policy": {"max_attempts": 5},
		"enabled": true,
		"created_at": "2026-01-02T03:04:05Z"
	}`, string(data))
}

func TestMapRoutesToListResponse_Empty(t *testing.T) {
	data, err := json.Marshal(MapRoutesToListResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": []}`, string(data))
}
