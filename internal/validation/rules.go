// Package validation provides custom validation rules for the application.
package validation

import (
	"bytes"
	"encoding/json"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/evently/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// JSONDocument validates that a json.RawMessage holds a well-formed, non-empty JSON
// document. null, "", {} and [] are rejected.
var JSONDocument = validation.By(func(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		return validation.NewError("validation_json_type", "must be a JSON document")
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil // Let Required handle absent payloads
	}
	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return validation.NewError("validation_json", "must be valid JSON")
	}

	if isEmptyDocument(doc) {
		return validation.NewError("validation_json_empty", "must not be empty")
	}
	return nil
})

// isEmptyDocument reports whether a decoded JSON value is null, "", {} or [].
func isEmptyDocument(doc any) bool {
	switch v := doc.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}
