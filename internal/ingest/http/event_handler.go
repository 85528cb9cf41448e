// Package http provides HTTP handlers and middleware for event ingestion.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/evently/internal/httputil"
	"github.com/allisson/evently/internal/ingest/http/dto"
	ingestUseCase "github.com/allisson/evently/internal/ingest/usecase"
	customValidation "github.com/allisson/evently/internal/validation"
)

// IdempotencyKeyHeader carries the idempotency key when the body does not.
const IdempotencyKeyHeader = "Idempotency-Key"

// EventHandler handles HTTP requests for event ingestion.
type EventHandler struct {
	ingestUseCase ingestUseCase.IngestUseCase
	logger        *slog.Logger
}

// NewEventHandler creates a new event handler with required dependencies.
func NewEventHandler(ingestUseCase ingestUseCase.IngestUseCase, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		ingestUseCase: ingestUseCase,
		logger:        logger,
	}
}

// CreateHandler records an event and fans it out to the matching routes.
// POST /v1/events - Returns 201 Created with the event id and the job ids in route order.
// A storage fault yields 503 and the request can be retried as a whole.
func (h *EventHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	req.ApplyIdempotencyHeader(c.GetHeader(IdempotencyKeyHeader))

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.ingestUseCase.CreateEvent(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapResultToResponse(result))
}
