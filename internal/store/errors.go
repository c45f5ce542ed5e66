package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Ownership checks also surface as ErrNotFound so that callers
	// cannot distinguish "someone else's session" from "no such session".
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity (e.g., a user with the same email, or a second claim
	// of an idempotency key).
	ErrDuplicate = errors.New("entity already exists")

	// ErrConflict is returned when a guarded state transition loses its
	// precondition, such as ending a session whose ended_at is already set.
	ErrConflict = errors.New("conflicting state transition")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrQuestionNotFound indicates that the requested question does not exist
	// or is not published.
	ErrQuestionNotFound = fmt.Errorf("%w: question", ErrNotFound)

	// ErrSessionNotFound indicates that the requested practice session does
	// not exist or is not owned by the caller.
	ErrSessionNotFound = fmt.Errorf("%w: practice session", ErrNotFound)

	// ErrSubscriptionNotFound indicates that the user has no subscription row.
	ErrSubscriptionNotFound = fmt.Errorf("%w: subscription", ErrNotFound)

	// ErrIdempotencyKeyNotFound indicates that no record exists for the
	// (user, action, key) triple.
	ErrIdempotencyKeyNotFound = fmt.Errorf("%w: idempotency key", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrIdempotencyKeyClaimed indicates that a non-expired record already
	// holds the (user, action, key) triple.
	ErrIdempotencyKeyClaimed = fmt.Errorf("%w: idempotency key", ErrDuplicate)

	// Entity-specific conflicts

	// ErrSessionEnded indicates that the session's one-way end transition has
	// already happened.
	ErrSessionEnded = fmt.Errorf("%w: session already ended", ErrConflict)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
