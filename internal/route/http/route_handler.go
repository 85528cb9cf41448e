// Package http provides HTTP handlers for route registry operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/evently/internal/httputil"
	"github.com/allisson/evently/internal/route/http/dto"
	routeUseCase "github.com/allisson/evently/internal/route/usecase"
	customValidation "github.com/allisson/evently/internal/validation"
)

// RouteHandler handles HTTP requests for the route registry.
type RouteHandler struct {
	routeUseCase routeUseCase.RouteUseCase
	logger       *slog.Logger
}

// NewRouteHandler creates a new route handler with required dependencies.
func NewRouteHandler(routeUseCase routeUseCase.RouteUseCase, logger *slog.Logger) *RouteHandler {
	return &RouteHandler{
		routeUseCase: routeUseCase,
		logger:       logger,
	}
}

// CreateHandler registers a new route.
// POST /v1/routes - Returns 201 Created with the stored route.
// Malformed input yields 422, an unsupported action type yields 400.
func (h *RouteHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateRouteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	route, err := h.routeUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRouteToResponse(route))
}

// ListHandler retrieves routes most recent first.
// GET /v1/routes?offset=0&limit=100 - Returns 200 OK with a page of routes.
func (h *RouteHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	routes, err := h.routeUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRoutesToListResponse(routes))
}
