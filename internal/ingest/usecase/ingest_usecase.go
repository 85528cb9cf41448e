package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/evently/internal/database"
	apperrors "github.com/allisson/evently/internal/errors"
	ingestDomain "github.com/allisson/evently/internal/ingest/domain"
	jobDomain "github.com/allisson/evently/internal/job/domain"
)

// ingestUseCase implements IngestUseCase.
type ingestUseCase struct {
	txManager database.TxManager
	eventRepo EventRepository
	routeRepo RouteRepository
	jobRepo   JobRepository
	logger    *slog.Logger
}

// CreateEvent validates the event, then records it, resolves matching routes and inserts
// their jobs inside one transaction. Any failure rolls the whole unit back.
func (i *ingestUseCase) CreateEvent(
	ctx context.Context,
	input *ingestDomain.CreateEventInput,
) (*ingestDomain.Result, error) {
	event := input.Event()
	if err := event.Validate(); err != nil {
		return nil, err
	}

	var result *ingestDomain.Result
	err := i.txManager.WithTx(ctx, func(ctx context.Context) error {
		eventID, inserted, err := i.eventRepo.Record(ctx, event)
		if err != nil {
			return err
		}

		routes, err := i.routeRepo.ListMatching(ctx, event.Type)
		if err != nil {
			return err
		}

		jobIDs := make([]uuid.UUID, 0, len(routes))
		created := 0
		for _, route := range routes {
			job := jobDomain.NewQueued(
				eventID,
				route.ID,
				string(route.ActionType),
				event.Payload,
				route.RetryPolicy.RetryBudget(),
			)

			jobID, isNew, err := i.jobRepo.Create(ctx, job)
			if err != nil {
				return err
			}
			if isNew {
				created++
			}
			jobIDs = append(jobIDs, jobID)
		}

		result = &ingestDomain.Result{
			EventID:     eventID,
			JobIDs:      jobIDs,
			Replayed:    !inserted,
			CreatedJobs: created,
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if i.logger != nil {
		i.logger.Debug("event ingested",
			slog.String("event_id", result.EventID.String()),
			slog.String("event_type", event.Type),
			slog.Int("jobs", len(result.JobIDs)),
			slog.Int("created_jobs", result.CreatedJobs),
			slog.Bool("replayed", result.Replayed),
		)
	}

	return result, nil
}

// classify keeps domain errors and reports anything else as a retryable storage fault.
func classify(err error) error {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput),
		apperrors.Is(err, apperrors.ErrConflict),
		apperrors.Is(err, apperrors.ErrPersistence),
		apperrors.Is(err, apperrors.ErrNotFound),
		apperrors.Is(err, apperrors.ErrUnsupported):
		return err
	default:
		return apperrors.Persistence(err, "failed to ingest event")
	}
}

// NewIngestUseCase creates a new IngestUseCase with the provided dependencies.
func NewIngestUseCase(
	txManager database.TxManager,
	eventRepo EventRepository,
	routeRepo RouteRepository,
	jobRepo JobRepository,
	logger *slog.Logger,
) IngestUseCase {
	return &ingestUseCase{
		txManager: txManager,
		eventRepo: eventRepo,
		routeRepo: routeRepo,
		jobRepo:   jobRepo,
		logger:    logger,
	}
}
