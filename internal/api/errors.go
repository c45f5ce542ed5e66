// Package api implements the HTTP transport layer: request decoding,
// error-to-status mapping, and handlers for auth, practice sessions,
// dashboard stats, and bookmarks.
package api

import (
	"errors"
	"net/http"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/domain/practice"
	"github.com/prepdeck/prepdeck-api/internal/service/auth"
	"github.com/prepdeck/prepdeck-api/internal/service/entitlement"
	"github.com/prepdeck/prepdeck-api/internal/service/idempotency"
	"github.com/prepdeck/prepdeck-api/internal/service/session"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// Stable error codes persisted with idempotent failures, so a replayed
// failure can be mapped back to the status and message of the original
// response.
const (
	CodeValidation      = "VALIDATION"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeUnsubscribed    = "UNSUBSCRIBED"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeNoQuestions     = "NO_QUESTIONS"
	CodeInternal        = "INTERNAL"
)

// ErrorCode classifies err into one of the stable error codes.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, entitlement.ErrNotEntitled):
		return CodeUnsubscribed
	case errors.Is(err, session.ErrNoQuestionsRemaining):
		return CodeNoQuestions
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrInvalidRefreshToken):
		return CodeUnauthenticated
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrQuestionNotFound),
		errors.Is(err, session.ErrQuestionNotInSession),
		errors.Is(err, session.ErrNoQuestionsAvailable),
		errors.Is(err, store.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, session.ErrSessionEnded),
		errors.Is(err, session.ErrReviewNotAvailable),
		errors.Is(err, domain.ErrSessionNotInProgress),
		errors.Is(err, idempotency.ErrInFlight),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return CodeConflict
	case errors.Is(err, practice.ErrInvalidChoice),
		errors.Is(err, idempotency.ErrKeyRequired),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidSessionMode),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, store.ErrInvalidEntity):
		return CodeValidation
	default:
		// practice.ErrInvalidQuestion lands here on purpose: a published
		// question violating the answer-key invariant is a data defect,
		// not a client error.
		return CodeInternal
	}
}

// StatusForCode maps a stable error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeUnsubscribed:
		return http.StatusPaymentRequired
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeNoQuestions:
		return http.StatusNoContent
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToStatusCode determines the HTTP status code for an error.
// Replayed idempotent failures carry their original classification and are
// mapped through it.
func MapErrorToStatusCode(err error) int {
	var replayed *idempotency.ReplayedError
	if errors.As(err, &replayed) {
		return StatusForCode(replayed.Code)
	}
	return StatusForCode(ErrorCode(err))
}

// GetSafeErrorMessage returns a message safe to expose to clients. Service
// and domain sentinel errors read well as-is; anything classified as
// internal is replaced with a generic message so storage or driver detail
// never reaches the response body.
func GetSafeErrorMessage(err error) string {
	var replayed *idempotency.ReplayedError
	if errors.As(err, &replayed) {
		return replayed.Message
	}

	switch ErrorCode(err) {
	case CodeUnauthenticated:
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return "Invalid email or password"
		}
		return "Authentication failed"
	case CodeUnsubscribed:
		return "An active subscription is required"
	case CodeInternal:
		return "An unexpected error occurred"
	default:
		return err.Error()
	}
}

// ClassifyError is the Classifier wired into the idempotency guard: it
// stores the stable code plus the client-safe message, never the raw error.
func ClassifyError(err error) (string, string) {
	return ErrorCode(err), GetSafeErrorMessage(err)
}
