// Package dto provides data transfer objects for route HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	routeDomain "github.com/allisson/evently/internal/route/domain"
	customValidation "github.com/allisson/evently/internal/validation"
)

// DestinationRequest describes where a route delivers.
type DestinationRequest struct {
	URL       string            `json:"url"`
	TimeoutMs *int              `json:"timeout_ms"`
	Headers   map[string]string `json:"headers"`
	Secret    string            `json:"secret"` //nolint:gosec // reserved for request signing
}

// Validate checks the destination fields.
func (d DestinationRequest) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.URL, validation.Required, customValidation.NotBlank),
		validation.Field(&d.TimeoutMs, validation.NilOrNotEmpty, validation.Min(1)),
	)
}

// RetryPolicyRequest describes how many times a job may be attempted.
type RetryPolicyRequest struct {
	MaxAttempts int    `json:"max_attempts"`
	Backoff     string `json:"backoff"`
}

// Validate checks the retry policy fields.
func (r RetryPolicyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MaxAttempts, validation.Required, validation.Min(1)),
	)
}

// CreateRouteRequest contains the parameters for registering a route.
type CreateRouteRequest struct {
	EventType   string             `json:"event_type"`
	ActionType  string             `json:"action_type"`
	Destination DestinationRequest `json:"destination"`
	RetryPolicy RetryPolicyRequest `json:"retry_policy"`
	Enabled     *bool              `json:"enabled"`
}

// Validate checks if the create route request is valid. Whether the action type is
// supported is decided by the use case.
func (r *CreateRouteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EventType, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.ActionType, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Destination),
		validation.Field(&r.RetryPolicy),
	)
}

// ToInput maps the request onto the use case input.
func (r *CreateRouteRequest) ToInput() *routeDomain.CreateRouteInput {
	return &routeDomain.CreateRouteInput{
		EventType:  r.EventType,
		ActionType: routeDomain.ActionType(r.ActionType),
		Destination: routeDomain.DestinationInput{
			URL:       r.Destination.URL,
			TimeoutMs: r.Destination.TimeoutMs,
			Headers:   r.Destination.Headers,
			Secret:    r.Destination.Secret,
		},
		MaxAttempts: r.RetryPolicy.MaxAttempts,
		Backoff:     r.RetryPolicy.Backoff,
		Enabled:     r.Enabled,
	}
}
