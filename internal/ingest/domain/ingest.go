// Package domain defines the input and outcome of event ingestion.
//
// Ingesting an event records it and fans it out into one queued job per enabled route
// registered for the event type. Both happen in one transaction.
package domain

import (
	"encoding/json"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/evently/internal/event/domain"
)

// CreateEventInput contains the parameters for ingesting an event.
type CreateEventInput struct {
	Type           string
	Payload        json.RawMessage
	IdempotencyKey *string
}

// Event builds the event to record from the input.
func (i *CreateEventInput) Event() *eventDomain.Event {
	return eventDomain.New(i.Type, i.Payload, i.IdempotencyKey)
}

// Result describes a committed ingestion.
type Result struct {
	EventID uuid.UUID
	// JobIDs holds one job per matching route in route order, including jobs created by an
	// earlier submission with the same idempotency key.
	JobIDs []uuid.UUID
	// Replayed is true when the idempotency key matched an existing event.
	Replayed bool
	// CreatedJobs counts the jobs inserted by this call.
	CreatedJobs int
}
