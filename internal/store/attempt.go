package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// MissedQuestion pairs a question with the user's latest incorrect attempt
// at it, for the dashboard's "missed questions" list.
type MissedQuestion struct {
	Question      *domain.Question
	LatestAttempt *domain.Attempt
}

// AttemptCounts holds aggregate attempt totals for a user.
type AttemptCounts struct {
	Total   int
	Correct int
}

// AttemptStore defines persistence for answer submissions. Attempts are
// append-only; there is no update or delete.
type AttemptStore interface {
	// Create appends a new attempt row.
	// Returns validation errors wrapped in ErrInvalidEntity if the attempt
	// data is invalid.
	Create(ctx context.Context, attempt *domain.Attempt) error

	// ListBySession returns the attempts recorded for a session, owned by
	// the given user, ordered by answered_at ascending with attempt id as
	// the stable tie-breaker.
	ListBySession(ctx context.Context, sessionID, userID uuid.UUID) ([]*domain.Attempt, error)

	// MostRecentAnsweredAtByQuestionIDs returns, for each of the given
	// question IDs the user has attempted, the answered_at of the most
	// recent attempt. Unattempted questions are absent from the map.
	MostRecentAnsweredAtByQuestionIDs(
		ctx context.Context,
		userID uuid.UUID,
		questionIDs []uuid.UUID,
	) (map[uuid.UUID]time.Time, error)

	// ListMissed returns questions whose latest attempt by the user was
	// incorrect, newest attempt first, paginated by limit/offset. "Latest"
	// is decided by answered_at with attempt id as the stable tie-breaker.
	ListMissed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MissedQuestion, error)

	// Counts returns the user's total and correct attempt counts for
	// attempts answered at or after since. A zero since counts everything.
	Counts(ctx context.Context, userID uuid.UUID, since time.Time) (AttemptCounts, error)

	// ListAnsweredAt returns the answered_at timestamps of the user's
	// attempts at or after since, for streak computation.
	ListAnsweredAt(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error)

	// WithTx returns an AttemptStore bound to the given transaction.
	WithTx(tx DBTX) AttemptStore
}
