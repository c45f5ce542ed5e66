package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookmarkStore defines persistence for per-user question bookmarks.
type BookmarkStore interface {
	// Toggle flips the bookmark for (userID, questionID) and returns the
	// resulting state: true when the bookmark now exists.
	Toggle(ctx context.Context, userID, questionID uuid.UUID, now time.Time) (bool, error)

	// ListQuestionIDs returns the user's bookmarked question IDs, newest
	// bookmark first.
	ListQuestionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
