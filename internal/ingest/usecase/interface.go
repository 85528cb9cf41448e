// Package usecase implements event ingestion and route fan-out.
package usecase

import (
	"context"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/evently/internal/event/domain"
	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
	jobDomain "github.com/allisson/evently/internal/job/domain"
	routeDomain "github.com/allisson/evently/internal/route/domain"
)

// EventRepository records events. Implementations must join the transaction in ctx.
type EventRepository interface {
	// Record inserts the event or, for a repeated (type, idempotency key), overwrites the
	// stored payload. Returns the stored event ID and whether a new row was inserted.
	Record(ctx context.Context, event *eventDomain.Event) (uuid.UUID, bool, error)
}

// RouteRepository looks up the routes an event fans out to.
type RouteRepository interface {
	// ListMatching returns enabled routes for the event type ordered by (created_at, id).
	ListMatching(ctx context.Context, eventType string) ([]*routeDomain.Route, error)
}

// JobRepository stores jobs produced by fan-out.
type JobRepository interface {
	// Create inserts the job unless one already exists for its (event, route) pair.
	// Returns the stored job ID and whether a new row was inserted.
	Create(ctx context.Context, job *jobDomain.Job) (uuid.UUID, bool, error)
}

// IngestUseCase defines the event ingestion operation.
type IngestUseCase interface {
	// CreateEvent records the event and creates one queued job per matching route in a single
	// transaction. Errors wrap ErrInvalidInput, ErrConflict or ErrPersistence.
	CreateEvent(ctx context.Context, input *ingestDomain.CreateEventInput) (*ingestDomain.Result, error)
}
