package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/domain/practice"
	"github.com/prepdeck/prepdeck-api/internal/service/auth"
	"github.com/prepdeck/prepdeck-api/internal/service/entitlement"
	"github.com/prepdeck/prepdeck-api/internal/service/idempotency"
	"github.com/prepdeck/prepdeck-api/internal/service/session"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not entitled", entitlement.ErrNotEntitled, http.StatusPaymentRequired},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"session not found", session.ErrSessionNotFound, http.StatusNotFound},
		{"question not in session", session.ErrQuestionNotInSession, http.StatusNotFound},
		{"no questions available", session.ErrNoQuestionsAvailable, http.StatusNotFound},
		{"session ended", session.ErrSessionEnded, http.StatusConflict},
		{"review not available", session.ErrReviewNotAvailable, http.StatusConflict},
		{"retry in flight", idempotency.ErrInFlight, http.StatusConflict},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid choice", practice.ErrInvalidChoice, http.StatusBadRequest},
		{"missing idempotency key", idempotency.ErrKeyRequired, http.StatusBadRequest},
		{"invalid session mode", domain.ErrInvalidSessionMode, http.StatusBadRequest},
		{"wrapped store not found", fmt.Errorf("loading: %w", store.ErrNotFound), http.StatusNotFound},
		{"no questions remaining", session.ErrNoQuestionsRemaining, http.StatusNoContent},
		{"answer-key violation", practice.ErrInvalidQuestion, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCodeReplayed(t *testing.T) {
	t.Parallel()

	replayed := &idempotency.ReplayedError{Code: CodeConflict, Message: "session already ended"}
	assert.Equal(t, http.StatusConflict, MapErrorToStatusCode(replayed))
	assert.Equal(t, "session already ended", GetSafeErrorMessage(replayed))

	wrapped := fmt.Errorf("replaying: %w", replayed)
	assert.Equal(t, http.StatusConflict, MapErrorToStatusCode(wrapped))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	// Internal detail never reaches the client.
	internal := errors.New(`pq: connection to "postgres://user:secret@db:5432" refused`)
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))

	// Sentinel errors read well as-is.
	assert.Equal(t, session.ErrSessionEnded.Error(), GetSafeErrorMessage(session.ErrSessionEnded))

	// Login failures are indistinguishable.
	assert.Equal(t, "Invalid email or password", GetSafeErrorMessage(auth.ErrInvalidCredentials))
	assert.Equal(t, "An active subscription is required",
		GetSafeErrorMessage(entitlement.ErrNotEntitled))
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	code, message := ClassifyError(session.ErrSessionEnded)
	assert.Equal(t, CodeConflict, code)
	assert.Equal(t, session.ErrSessionEnded.Error(), message)

	code, message = ClassifyError(errors.New("driver: bad connection"))
	assert.Equal(t, CodeInternal, code)
	assert.Equal(t, "An unexpected error occurred", message)
}
