package domain

import (
	apperrors "github.com/allisson/evently/internal/errors"
)

// Job errors.
var (
	// ErrJobNotFound indicates a job with the specified ID was not found.
	ErrJobNotFound = apperrors.Wrap(apperrors.ErrNotFound, "job not found")

	// ErrInvalidTransition indicates the requested status change is not allowed from the current status.
	ErrInvalidTransition = apperrors.Wrap(apperrors.ErrConflict, "invalid job status transition")

	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid job status")
)
