package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// DefaultMaxAttempts is the retry budget used when a route's policy does not yield a usable one.
const DefaultMaxAttempts = 5

// AttemptsState tags the outcome of reading max_attempts from a stored policy.
type AttemptsState int

const (
	// AttemptsAbsent means the field was missing or null.
	AttemptsAbsent AttemptsState = iota
	// AttemptsInvalid means the field was present but not a positive integer.
	AttemptsInvalid
	// AttemptsValid means the field holds a positive integer.
	AttemptsValid
)

// MaxAttempts is the tagged result of parsing a max_attempts value.
type MaxAttempts struct {
	State AttemptsState
	Value int
}

// ParseMaxAttempts reads a raw max_attempts JSON value. It never fails: anything that is not a
// positive integer comes back as Absent or Invalid.
func ParseMaxAttempts(raw json.RawMessage) MaxAttempts {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return MaxAttempts{State: AttemptsAbsent}
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return MaxAttempts{State: AttemptsInvalid}
	}
	if n < 1 || n != math.Trunc(n) || n > math.MaxInt32 {
		return MaxAttempts{State: AttemptsInvalid}
	}
	return MaxAttempts{State: AttemptsValid, Value: int(n)}
}

// RetryPolicy is a route's retry configuration. Backoff is carried for the delivery worker.
type RetryPolicy struct {
	MaxAttempts MaxAttempts
	Backoff     string
}

type retryPolicyDocument struct {
	MaxAttempts json.RawMessage `json:"max_attempts,omitempty"`
	Backoff     *string         `json:"backoff,omitempty"`
}

// NewRetryPolicy builds a policy from a validated attempt count.
func NewRetryPolicy(maxAttempts int, backoff string) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: MaxAttempts{State: AttemptsValid, Value: maxAttempts},
		Backoff:     backoff,
	}
}

// DecodeRetryPolicy reads a stored retry policy in either structured or string-serialized form.
// Malformed documents decode to a policy with an absent or invalid attempt count.
func DecodeRetryPolicy(raw []byte) RetryPolicy {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(unwrapJSONString(raw), &doc); err != nil {
		return RetryPolicy{MaxAttempts: MaxAttempts{State: AttemptsInvalid}}
	}

	policy := RetryPolicy{MaxAttempts: ParseMaxAttempts(doc["max_attempts"])}
	if rawBackoff, ok := doc["backoff"]; ok {
		var backoff string
		if json.Unmarshal(rawBackoff, &backoff) == nil {
			policy.Backoff = backoff
		}
	}
	return policy
}

// RetryBudget returns the number of attempts a job created from this policy gets.
func (p RetryPolicy) RetryBudget() int {
	if p.MaxAttempts.State == AttemptsValid {
		return p.MaxAttempts.Value
	}
	return DefaultMaxAttempts
}

// MarshalJSON encodes the policy as {"max_attempts": n, "backoff": "..."}. An attempt count that
// did not parse is omitted.
func (p RetryPolicy) MarshalJSON() ([]byte, error) {
	doc := retryPolicyDocument{}
	if p.MaxAttempts.State == AttemptsValid {
		doc.MaxAttempts = json.RawMessage(strconv.Itoa(p.MaxAttempts.Value))
	}
	if p.Backoff != "" {
		doc.Backoff = &p.Backoff
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes tolerantly and never returns an error.
func (p *RetryPolicy) UnmarshalJSON(data []byte) error {
	*p = DecodeRetryPolicy(data)
	return nil
}
