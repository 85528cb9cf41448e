package dto

import (
	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
)

// CreateEventResponse represents a committed ingestion in API responses.
type CreateEventResponse struct {
	EventID  string   `json:"event_id"`
	JobIDs   []string `json:"job_ids"`
	Replayed bool     `json:"replayed"`
}

// MapResultToResponse converts an ingestion result to an API response.
func MapResultToResponse(result *ingestDomain.Result) CreateEventResponse {
	jobIDs := make([]string, 0, len(result.JobIDs))
	for _, id := range result.JobIDs {
		jobIDs = append(jobIDs, id.String())
	}

	return CreateEventResponse{
		EventID:  result.EventID.String(),
		JobIDs:   jobIDs,
		Replayed: result.Replayed,
	}
}
