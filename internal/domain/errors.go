// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDifficulty is returned when a question difficulty is not one
	// of the known values.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidQuestionStatus is returned when a question status is not valid.
	ErrInvalidQuestionStatus = errors.New("invalid question status")

	// ErrInvalidSessionMode is returned when a practice session mode is not valid.
	ErrInvalidSessionMode = errors.New("invalid session mode")

	// ErrInvalidSubscriptionStatus is returned when a subscription status is not valid.
	ErrInvalidSubscriptionStatus = errors.New("invalid subscription status")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
