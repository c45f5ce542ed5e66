package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// IdempotencyStore defines persistence for idempotency key records.
//
// Claim must be atomic at the storage layer: two concurrent claims for the
// same (user, action, key) triple are an expected scenario (a retried
// network call), and exactly one of them may win. The PostgreSQL
// implementation relies on the primary-key insert racing, never on an
// in-process lock, so the guarantee holds across replicas.
type IdempotencyStore interface {
	// Claim inserts a pending record for (userID, action, key) expiring at
	// expiresAt. If a record already exists and has not expired, Claim
	// returns ErrIdempotencyKeyClaimed. If the existing record has expired,
	// it is reset to a fresh pending claim.
	Claim(ctx context.Context, userID uuid.UUID, action, key string, expiresAt time.Time) error

	// Get retrieves the record for (userID, action, key).
	// Returns ErrIdempotencyKeyNotFound if no record exists.
	Get(ctx context.Context, userID uuid.UUID, action, key string) (*domain.IdempotencyKeyRecord, error)

	// StoreResult records the successful outcome of the claimed execution.
	StoreResult(ctx context.Context, userID uuid.UUID, action, key string, result json.RawMessage) error

	// StoreError records the failure outcome of the claimed execution, so
	// retries with the same key surface the same failure instead of
	// re-running a partially completed operation.
	StoreError(ctx context.Context, userID uuid.UUID, action, key string, message string) error
}
