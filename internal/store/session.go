package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// PracticeSessionStore defines persistence for practice sessions and their
// per-question state. Every read and write is scoped by the owning user;
// a session belonging to someone else behaves exactly like a missing one.
type PracticeSessionStore interface {
	// Create persists a new session with its fixed question list and empty
	// per-question state.
	Create(ctx context.Context, session *domain.PracticeSession) error

	// GetByID retrieves a session with its question states. Returns
	// ErrSessionNotFound if the session does not exist or is not owned by
	// userID.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.PracticeSession, error)

	// UpdateQuestionState overwrites the per-question state row for one
	// question of the session. Returns ErrSessionNotFound when the session
	// is missing or foreign, ErrQuestionNotFound when the question is not
	// part of the session's fixed list.
	UpdateQuestionState(
		ctx context.Context,
		sessionID, userID uuid.UUID,
		state domain.QuestionState,
	) error

	// SetStatus updates the session's lifecycle status.
	SetStatus(ctx context.Context, sessionID, userID uuid.UUID, status domain.SessionStatus) error

	// End sets ended_at and the terminal status, guarded by a conditional
	// update on ended_at IS NULL so concurrent double-ends cannot both
	// succeed. Returns ErrSessionEnded when the session is already ended and
	// ErrSessionNotFound when it is missing or foreign.
	End(ctx context.Context, sessionID, userID uuid.UUID, endedAt time.Time) error

	// WithTx returns a PracticeSessionStore bound to the given transaction.
	WithTx(tx DBTX) PracticeSessionStore
}
