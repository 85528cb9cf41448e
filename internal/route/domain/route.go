// Package domain defines the routing rule model used to fan events out into delivery jobs.
//
// A Route maps an event type to an action and a destination. Routes are immutable once created;
// the fan-out reads them inside its transaction to decide which jobs must exist for an event.
package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/evently/internal/validation"
)

// DefaultTimeoutMs is applied to a destination that does not specify a timeout.
const DefaultTimeoutMs = 3000

// Destination describes where and how an action delivers. Only URL and TimeoutMs are validated
// here; Headers and Secret are carried for the delivery worker.
type Destination struct {
	URL       string            `json:"url"`
	TimeoutMs int               `json:"timeout_ms"`
	Headers   map[string]string `json:"headers,omitempty"`
	Secret    string            `json:"secret,omitempty"` //nolint:gosec // reserved for request signing
}

// Route is a persisted rule that matches events by type and produces one job per match.
type Route struct {
	ID          uuid.UUID // Unique identifier (UUIDv7)
	EventType   string
	ActionType  ActionType
	Destination Destination
	RetryPolicy RetryPolicy
	Enabled     bool
	CreatedAt   time.Time
}

// DestinationInput is the caller-supplied destination. A nil TimeoutMs means "use the default".
type DestinationInput struct {
	URL       string
	TimeoutMs *int
	Headers   map[string]string
	Secret    string
}

// CreateRouteInput contains the parameters for registering a new route.
type CreateRouteInput struct {
	EventType   string
	ActionType  ActionType
	Destination DestinationInput
	MaxAttempts int
	Backoff     string
	Enabled     *bool // nil defaults to true
}

// Validate checks the structural rules for a new route. Action support is checked separately
// so that callers can tell an unsupported action apart from malformed input.
func (i *CreateRouteInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.EventType, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.ActionType, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.MaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&i.Destination),
	)
	return customValidation.WrapValidationError(err)
}

// Validate implements validation.Validatable for the nested destination.
func (d DestinationInput) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.URL, validation.Required, customValidation.NotBlank),
		validation.Field(&d.TimeoutMs, validation.NilOrNotEmpty, validation.Min(1)),
	)
}

// Destination resolves the input into a stored destination, applying the default timeout.
func (d DestinationInput) Destination() Destination {
	timeout := DefaultTimeoutMs
	if d.TimeoutMs != nil {
		timeout = *d.TimeoutMs
	}
	return Destination{
		URL:       d.URL,
		TimeoutMs: timeout,
		Headers:   d.Headers,
		Secret:    d.Secret,
	}
}

// IsEnabled reports the effective enabled flag.
func (i *CreateRouteInput) IsEnabled() bool {
	return i.Enabled == nil || *i.Enabled
}

// DecodeDestination decodes a stored destination document. Some drivers hand JSON columns back as
// a JSON string holding the document, so one level of string encoding is unwrapped first.
func DecodeDestination(raw []byte) (Destination, error) {
	var dest Destination
	if err := json.Unmarshal(unwrapJSONString(raw), &dest); err != nil {
		return Destination{}, err
	}
	if dest.TimeoutMs == 0 {
		dest.TimeoutMs = DefaultTimeoutMs
	}
	return dest, nil
}

// DecodeDestinationLenient never fails. A readable document decodes as with DecodeDestination;
// otherwise each field is read on its own and a field of the wrong JSON type is left at its zero
// value. A timeout given as a numeric string is accepted.
func DecodeDestinationLenient(raw []byte) Destination {
	if dest, err := DecodeDestination(raw); err == nil {
		return dest
	}

	dest := Destination{TimeoutMs: DefaultTimeoutMs}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(unwrapJSONString(raw), &fields); err != nil {
		return dest
	}

	_ = json.Unmarshal(fields["url"], &dest.URL)
	_ = json.Unmarshal(fields["secret"], &dest.Secret)

	var headers map[string]string
	if err := json.Unmarshal(fields["headers"], &headers); err == nil {
		dest.Headers = headers
	}

	var timeout int
	if err := json.Unmarshal(fields["timeout_ms"], &timeout); err != nil {
		var text string
		if json.Unmarshal(fields["timeout_ms"], &text) == nil {
			timeout, _ = strconv.Atoi(strings.TrimSpace(text))
		}
	}
	if timeout > 0 {
		dest.TimeoutMs = timeout
	}
	return dest
}

// unwrapJSONString returns the inner document when raw is a JSON string, otherwise raw unchanged.
func unwrapJSONString(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return trimmed
	}
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return trimmed
	}
	return []byte(inner)
}
