// Package domain defines the event model recorded by ingestion.
//
// An event optionally carries an idempotency key scoped to its type. At most one event
// exists per (type, idempotency key); resubmitting the pair overwrites the payload.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/evently/internal/validation"
)

// Event is a persisted occurrence submitted by a producer.
type Event struct {
	ID             uuid.UUID // Unique identifier (UUIDv7)
	Type           string
	Payload        json.RawMessage
	IdempotencyKey *string // nil events are never deduplicated
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasIdempotencyKey reports whether the event participates in deduplication.
func (e *Event) HasIdempotencyKey() bool {
	return e.IdempotencyKey != nil
}

// Validate checks the event shape: a non-blank type and a non-empty JSON payload.
func (e *Event) Validate() error {
	err := validation.ValidateStruct(e,
		validation.Field(&e.Type, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&e.Payload, validation.Required, customValidation.JSONDocument),
		validation.Field(
			&e.IdempotencyKey,
			validation.NilOrNotEmpty,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
	return customValidation.WrapValidationError(err)
}

// New builds an event with a fresh UUIDv7 and matching timestamps.
func New(eventType string, payload json.RawMessage, idempotencyKey *string) *Event {
	now := time.Now().UTC()
	return &Event{
		ID:             uuid.Must(uuid.NewV7()),
		Type:           eventType,
		Payload:        payload,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
