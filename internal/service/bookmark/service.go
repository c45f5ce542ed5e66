// Package bookmark lets learners pin questions for later review.
package bookmark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// ToggleResult reports the bookmark state after a toggle.
type ToggleResult struct {
	QuestionID uuid.UUID `json:"question_id"`
	Bookmarked bool      `json:"bookmarked"`
}

// QuestionSummary is a bookmarked question as listed on the review screen.
type QuestionSummary struct {
	QuestionID uuid.UUID         `json:"question_id"`
	Slug       string            `json:"slug"`
	StemMD     string            `json:"stem_md"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Tags       []string          `json:"tags,omitempty"`
}

// Service manages per-user question bookmarks.
type Service interface {
	// Toggle flips the bookmark for a question and reports the resulting
	// state. Returns store.ErrQuestionNotFound when the question does not
	// exist in published form.
	Toggle(ctx context.Context, userID, questionID uuid.UUID) (*ToggleResult, error)

	// List returns the user's bookmarked questions, most recently bookmarked
	// first. Bookmarks pointing at questions that have since been unpublished
	// are skipped.
	List(ctx context.Context, userID uuid.UUID) ([]QuestionSummary, error)
}

// Verify interface compliance at compile time
var _ Service = (*bookmarkServiceImpl)(nil)

type bookmarkServiceImpl struct {
	bookmarkStore store.BookmarkStore
	questionStore store.QuestionStore
	logger        *slog.Logger
	now           func() time.Time
}

// NewService creates a new bookmark Service implementation.
// If logger is nil, a default logger will be used.
func NewService(
	bookmarkStore store.BookmarkStore,
	questionStore store.QuestionStore,
	logger *slog.Logger,
) Service {
	if bookmarkStore == nil {
		panic("bookmarkStore cannot be nil")
	}
	if questionStore == nil {
		panic("questionStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bookmarkServiceImpl{
		bookmarkStore: bookmarkStore,
		questionStore: questionStore,
		logger:        logger.With(slog.String("component", "bookmark_service")),
		now:           time.Now,
	}
}

// Toggle implements Service.Toggle.
func (s *bookmarkServiceImpl) Toggle(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*ToggleResult, error) {
	// Only published questions may be bookmarked.
	if _, err := s.questionStore.GetPublishedByID(ctx, questionID); err != nil {
		return nil, err
	}

	bookmarked, err := s.bookmarkStore.Toggle(ctx, userID, questionID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to toggle bookmark: %w", err)
	}

	return &ToggleResult{QuestionID: questionID, Bookmarked: bookmarked}, nil
}

// List implements Service.List.
func (s *bookmarkServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
) ([]QuestionSummary, error) {
	ids, err := s.bookmarkStore.ListQuestionIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	questions, err := s.questionStore.GetPublishedByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarked questions: %w", err)
	}

	summaries := make([]QuestionSummary, len(questions))
	for i, q := range questions {
		summaries[i] = QuestionSummary{
			QuestionID: q.ID,
			Slug:       q.Slug,
			StemMD:     q.StemMD,
			Difficulty: q.Difficulty,
			Tags:       q.Tags,
		}
	}
	return summaries, nil
}
