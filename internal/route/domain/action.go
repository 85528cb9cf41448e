package domain

import (
	"fmt"
	"slices"

	apperrors "github.com/allisson/evently/internal/errors"
)

// ActionType names what a job does when executed.
type ActionType string

const (
	// ActionWebhookDeliver posts the event payload to the route destination.
	ActionWebhookDeliver ActionType = "webhook.deliver"
)

// SupportedActions lists every action a route may be created with.
var SupportedActions = []ActionType{
	ActionWebhookDeliver,
}

// IsSupported reports whether a is registered in SupportedActions.
func (a ActionType) IsSupported() bool {
	return slices.Contains(SupportedActions, a)
}

// CheckSupported returns ErrUnsupportedAction wrapped with the offending action when a is unknown.
func (a ActionType) CheckSupported() error {
	if a.IsSupported() {
		return nil
	}
	return apperrors.Wrap(ErrUnsupportedAction, fmt.Sprintf("%q (supported: %v)", string(a), SupportedActions))
}
