package domain

import (
	apperrors "github.com/allisson/evently/internal/errors"
)

// Route errors.
var (
	// ErrUnsupportedAction indicates the action type is not in SupportedActions.
	ErrUnsupportedAction = apperrors.Wrap(apperrors.ErrUnsupported, "unsupported action type")
)
