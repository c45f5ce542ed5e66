package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Idempotency-specific validation errors
var (
	// ErrIdempotencyKeyEmpty is returned when an idempotency key is empty.
	ErrIdempotencyKeyEmpty = errors.New("idempotency key cannot be empty")

	// ErrIdempotencyActionEmpty is returned when an idempotency action is empty.
	ErrIdempotencyActionEmpty = errors.New("idempotency action cannot be empty")

	// ErrIdempotencyNoOutcome is returned when a completed record has neither
	// a stored result nor a stored error. Exactly one must be populated after
	// the first successful execution.
	ErrIdempotencyNoOutcome = errors.New("idempotency record has no stored outcome")
)

// IdempotencyKeyRecord pins an action to at-most-one effective execution,
// scoped per (userID, action, key). After the wrapped operation runs once,
// exactly one of StoredResult or StoredError is populated and replayed
// verbatim on retries until the record expires.
type IdempotencyKeyRecord struct {
	UserID       uuid.UUID       `json:"user_id"`
	Action       string          `json:"action"`
	Key          string          `json:"key"`
	ExpiresAt    time.Time       `json:"expires_at"`
	StoredResult json.RawMessage `json:"stored_result,omitempty"`
	StoredError  string          `json:"stored_error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Validate checks if the IdempotencyKeyRecord has valid data.
// Returns an error if any field fails validation.
func (r *IdempotencyKeyRecord) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}

	if r.Action == "" {
		return ErrIdempotencyActionEmpty
	}

	if r.Key == "" {
		return ErrIdempotencyKeyEmpty
	}

	return nil
}

// Expired reports whether the record's claim window has passed and the key
// may be reclaimed by a new execution.
func (r *IdempotencyKeyRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Completed reports whether the wrapped operation has finished, leaving a
// stored outcome to replay.
func (r *IdempotencyKeyRecord) Completed() bool {
	return len(r.StoredResult) > 0 || r.StoredError != ""
}

// Outcome returns the stored result or the stored error for replay.
// Returns ErrIdempotencyNoOutcome if the record is still pending.
func (r *IdempotencyKeyRecord) Outcome() (json.RawMessage, error) {
	if r.StoredError != "" {
		return nil, errors.New(r.StoredError)
	}
	if len(r.StoredResult) > 0 {
		return r.StoredResult, nil
	}
	return nil, ErrIdempotencyNoOutcome
}
