// Package store defines the persistence ports consumed by the practice
// engine and their shared error vocabulary. Implementations live in
// internal/platform/postgres; services depend only on these interfaces.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// QuestionStore defines read access to the published question bank.
// Draft and archived questions are invisible through this interface.
type QuestionStore interface {
	// ListPublishedCandidateIDs returns the ordered candidate pool for
	// selection: published questions carrying any of the given tag slugs and
	// any of the given difficulties (empty filters match everything),
	// ordered newest-created first with id ascending as the tie-breaker.
	// The ordering is deterministic so that seeded shuffles downstream are
	// reproducible.
	ListPublishedCandidateIDs(
		ctx context.Context,
		tagSlugs []string,
		difficulties []domain.Difficulty,
	) ([]uuid.UUID, error)

	// GetPublishedByID retrieves a published question with its choices and
	// tags. Returns ErrQuestionNotFound if the question does not exist or is
	// not published.
	GetPublishedByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// GetPublishedByIDs retrieves the published questions for the given IDs,
	// in the order given. Missing or unpublished IDs are skipped.
	GetPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Question, error)

	// GetPublishedBySlug retrieves a published question by its slug.
	// Returns ErrQuestionNotFound if the question does not exist or is not
	// published.
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Question, error)
}
