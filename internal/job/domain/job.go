// Package domain defines delivery jobs and their status lifecycle.
package domain

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Statuses lists every job status.
var Statuses = []Status{StatusQueued, StatusProcessing, StatusSucceeded, StatusFailed}

// transitions maps each status to the statuses it may move to.
// A processing job returns to queued when the worker schedules another attempt.
var transitions = map[Status][]Status{
	StatusQueued:     {StatusProcessing},
	StatusProcessing: {StatusQueued, StatusSucceeded, StatusFailed},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// Predecessors returns the statuses from which a job may move to the given status.
func Predecessors(to Status) []Status {
	var from []Status
	for _, s := range Statuses {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// Job is a unit of deferred delivery work created by fan-out. The action type and payload are
// snapshots taken when the job was created.
type Job struct {
	ID          uuid.UUID // Unique identifier (UUIDv7)
	EventID     uuid.UUID
	RouteID     uuid.UUID
	ActionType  string
	Payload     json.RawMessage
	Status      Status
	Attempt     int
	MaxAttempts int
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQueued builds a job ready to be claimed by a worker.
func NewQueued(
	eventID, routeID uuid.UUID,
	actionType string,
	payload json.RawMessage,
	maxAttempts int,
) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:          uuid.Must(uuid.NewV7()),
		EventID:     eventID,
		RouteID:     routeID,
		ActionType:  actionType,
		Payload:     payload,
		Status:      StatusQueued,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
