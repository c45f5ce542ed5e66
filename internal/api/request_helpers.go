package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/api/middleware"
	"github.com/prepdeck/prepdeck-api/internal/api/shared"
	"github.com/prepdeck/prepdeck-api/internal/service/idempotency"
)

// getUserIDFromContext extracts the authenticated user ID placed in the
// context by the auth middleware. Writes a 401 response and returns false if
// it is missing, which indicates a route wired without the middleware.
func getUserIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID parses the named chi URL parameter as a UUID. Writes a 400
// response and returns false on a malformed value.
func getPathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// respondGuarded runs fn behind the idempotency guard keyed by the request's
// Idempotency-Key header and writes the JSON payload, stored or fresh, with
// the given success status. Every mutating endpoint goes through here so a
// retried request replays the stored outcome instead of executing twice.
func respondGuarded(
	w http.ResponseWriter,
	r *http.Request,
	guard *idempotency.Guard,
	action string,
	successStatus int,
	fn idempotency.Fn,
) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	payload, err := guard.Execute(r.Context(), userID, action, key, fn)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithRawJSON(w, r, successStatus, payload)
}

// respondServiceError maps a service-layer error to its HTTP status and
// client-safe message. NO_QUESTIONS maps to a bare 204, matching the
// next-question contract for exhausted sessions.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
