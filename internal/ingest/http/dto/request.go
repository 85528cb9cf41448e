// Package dto provides data transfer objects for event ingestion HTTP handling.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
	customValidation "github.com/allisson/evently/internal/validation"
)

// CreateEventRequest contains the parameters for submitting an event.
type CreateEventRequest struct {
	Type           string          `json:"type"`
	Payload        json.RawMessage `json:"payload"`
	IdempotencyKey *string         `json:"idempotency_key"`
}

// Validate checks if the create event request is valid.
func (r *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Payload, validation.Required, customValidation.JSONDocument),
		validation.Field(
			&r.IdempotencyKey,
			validation.NilOrNotEmpty,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// ApplyIdempotencyHeader uses the Idempotency-Key header value when the body carries no key.
func (r *CreateEventRequest) ApplyIdempotencyHeader(value string) {
	if r.IdempotencyKey == nil && value != "" {
		r.IdempotencyKey = &value
	}
}

// ToInput maps the request onto the use case input.
func (r *CreateEventRequest) ToInput() *ingestDomain.CreateEventInput {
	return &ingestDomain.CreateEventInput{
		Type:           r.Type,
		Payload:        r.Payload,
		IdempotencyKey: r.IdempotencyKey,
	}
}
