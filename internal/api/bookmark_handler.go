package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prepdeck/prepdeck-api/internal/api/shared"
	"github.com/prepdeck/prepdeck-api/internal/service/bookmark"
	"github.com/prepdeck/prepdeck-api/internal/service/idempotency"
)

// BookmarkHandler handles the bookmark endpoints. Toggling is a mutating
// action and runs behind the idempotency guard like the session mutations.
type BookmarkHandler struct {
	bookmarkService bookmark.Service
	guard           *idempotency.Guard
	logger          *slog.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler with its dependencies.
// If logger is nil, a default logger will be used.
func NewBookmarkHandler(
	bookmarkService bookmark.Service,
	guard *idempotency.Guard,
	logger *slog.Logger,
) *BookmarkHandler {
	if bookmarkService == nil {
		panic("bookmarkService cannot be nil")
	}
	if guard == nil {
		panic("guard cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		guard:           guard,
		logger:          logger.With(slog.String("component", "bookmark_handler")),
	}
}

// Toggle handles POST /api/questions/{questionID}/bookmark.
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	questionID, ok := getPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	respondGuarded(w, r, h.guard, actionToggleBookmark, http.StatusOK,
		func(ctx context.Context) (any, error) {
			return h.bookmarkService.Toggle(ctx, userID, questionID)
		})
}

// List handles GET /api/bookmarks.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	bookmarks, err := h.bookmarkService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []bookmark.QuestionSummary{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookmarks)
}
