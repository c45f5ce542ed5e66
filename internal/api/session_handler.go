package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prepdeck/prepdeck-api/internal/api/shared"
	"github.com/prepdeck/prepdeck-api/internal/service/idempotency"
	"github.com/prepdeck/prepdeck-api/internal/service/session"
)

// IdempotencyKeyHeader carries the client-chosen retry key on mutating
// session endpoints.
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency actions; part of the stored record's identity, so renaming one
// invalidates in-flight retries.
const (
	actionStartSession   = "start_session"
	actionSubmitAnswer   = "submit_answer"
	actionEndSession     = "end_session"
	actionToggleMark     = "toggle_mark"
	actionToggleBookmark = "toggle_bookmark"
)

// SessionHandler handles the practice session lifecycle endpoints. The
// mutating endpoints (start, answer, end) run behind the idempotency guard:
// a retried request with the same Idempotency-Key replays the stored outcome
// instead of re-executing.
type SessionHandler struct {
	sessionService session.Service
	guard          *idempotency.Guard
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler with its dependencies.
// If logger is nil, a default logger will be used.
func NewSessionHandler(
	sessionService session.Service,
	guard *idempotency.Guard,
	logger *slog.Logger,
) *SessionHandler {
	if sessionService == nil {
		panic("sessionService cannot be nil")
	}
	if guard == nil {
		panic("guard cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionHandler{
		sessionService: sessionService,
		guard:          guard,
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// Start handles POST /api/sessions.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req session.StartRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	h.guarded(w, r, actionStartSession, http.StatusCreated,
		func(ctx context.Context) (any, error) {
			return h.sessionService.Start(ctx, userID, req)
		})
}

// GetQuestion handles GET /api/sessions/{sessionID}/questions/{questionID}.
func (h *SessionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	sessionID, ok := getPathUUID(w, r, "sessionID")
	if !ok {
		return
	}
	questionID, ok := getPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	view, err := h.sessionService.GetQuestion(r.Context(), userID, sessionID, questionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// NextQuestion handles GET /api/sessions/{sessionID}/questions/next.
// Responds 204 when every question has been answered.
func (h *SessionHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	sessionID, ok := getPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	view, err := h.sessionService.NextQuestion(r.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SubmitAnswer handles POST /api/sessions/{sessionID}/answers.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	sessionID, ok := getPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	var req session.AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	h.guarded(w, r, actionSubmitAnswer, http.StatusOK,
		func(ctx context.Context) (any, error) {
			return h.sessionService.SubmitAnswer(ctx, userID, sessionID, req)
		})
}

// ToggleMarkForReview handles
// POST /api/sessions/{sessionID}/questions/{questionID}/mark.
func (h *SessionHandler) ToggleMarkForReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	sessionID, ok := getPathUUID(w, r, "sessionID")
	if !ok {
		return
	}
	questionID, ok := getPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	respondGuarded(w, r, h.guard, actionToggleMark, http.StatusOK,
		func(ctx context.Context) (any, error) {
			return h.sessionService.ToggleMarkForReview(ctx, userID, sessionID, questionID)
		})
}

// EnterReview handles POST /api/sessions/{sessionID}/review.
func (h *SessionHandler) EnterReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	sessionID, ok := getPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	summary, err := h.sessionService.EnterReview(r.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// End handles POST /api/sessions/{sessionID}/end.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	sessionID, ok := getPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	h.guarded(w, r, actionEndSession, http.StatusOK,
		func(ctx context.Context) (any, error) {
			return h.sessionService.End(ctx, userID, sessionID)
		})
}

// GetReview handles GET /api/sessions/{sessionID}/review.
func (h *SessionHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	sessionID, ok := getPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	summary, err := h.sessionService.GetReview(r.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// guarded wraps one of the handler's session operations in the idempotency
// guard.
func (h *SessionHandler) guarded(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	successStatus int,
	fn idempotency.Fn,
) {
	respondGuarded(w, r, h.guard, action, successStatus, fn)
}
