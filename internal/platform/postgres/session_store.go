package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresSessionStore implements the store.PracticeSessionStore interface
// using a PostgreSQL database as the storage backend. The fixed question
// list and per-question state live in practice_session_questions, one row
// per question keyed by position.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// PracticeSessionStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.PracticeSessionStore interface
var _ store.PracticeSessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.PracticeSessionStore.WithTx.
func (s *PostgresSessionStore) WithTx(tx store.DBTX) store.PracticeSessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

// Create implements store.PracticeSessionStore.Create.
// Callers are expected to run it inside store.RunInTransaction so the
// session row and its question rows land atomically.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.PracticeSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tagFilters, err := json.Marshal(session.TagFilters)
	if err != nil {
		return fmt.Errorf("failed to marshal tag filters: %w", err)
	}
	difficultyFilters, err := json.Marshal(session.DifficultyFilters)
	if err != nil {
		return fmt.Errorf("failed to marshal difficulty filters: %w", err)
	}

	query := `
		INSERT INTO practice_sessions (
			id, user_id, mode, status, tag_filters, difficulty_filters,
			started_at, ended_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL)
	`
	if _, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		string(session.Mode),
		string(session.Status),
		tagFilters,
		difficultyFilters,
		session.StartedAt,
	); err != nil {
		return fmt.Errorf("failed to insert session: %w", MapError(err))
	}

	questionQuery := `
		INSERT INTO practice_session_questions (
			session_id, question_id, position, marked_for_review
		)
		VALUES ($1, $2, $3, FALSE)
	`
	for i, questionID := range session.QuestionIDs {
		if _, err := s.db.ExecContext(ctx, questionQuery, session.ID, questionID, i); err != nil {
			return fmt.Errorf("failed to insert session question: %w", MapError(err))
		}
	}

	return nil
}

// GetByID implements store.PracticeSessionStore.GetByID. Ownership is part
// of the lookup: a foreign session is indistinguishable from a missing one.
func (s *PostgresSessionStore) GetByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.PracticeSession, error) {
	query := `
		SELECT id, user_id, mode, status, tag_filters, difficulty_filters,
		       started_at, ended_at
		FROM practice_sessions
		WHERE id = $1 AND user_id = $2
	`
	var session domain.PracticeSession
	var tagFilters, difficultyFilters []byte
	var endedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&session.ID, &session.UserID, &session.Mode, &session.Status,
		&tagFilters, &difficultyFilters, &session.StartedAt, &endedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", MapError(err))
	}

	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}
	if err := json.Unmarshal(tagFilters, &session.TagFilters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag filters: %w", err)
	}
	if err := json.Unmarshal(difficultyFilters, &session.DifficultyFilters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal difficulty filters: %w", err)
	}

	if err := s.loadQuestionStates(ctx, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// loadQuestionStates fills QuestionIDs and QuestionStates in fixed position
// order.
func (s *PostgresSessionStore) loadQuestionStates(
	ctx context.Context,
	session *domain.PracticeSession,
) error {
	query := `
		SELECT question_id, marked_for_review, latest_selected_choice_id,
		       latest_is_correct, latest_answered_at
		FROM practice_session_questions
		WHERE session_id = $1
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, query, session.ID)
	if err != nil {
		return fmt.Errorf("failed to query session questions: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var state domain.QuestionState
		var choiceID uuid.NullUUID
		var isCorrect sql.NullBool
		var answeredAt sql.NullTime

		if err := rows.Scan(
			&state.QuestionID, &state.MarkedForReview,
			&choiceID, &isCorrect, &answeredAt,
		); err != nil {
			return fmt.Errorf("failed to scan session question: %w", err)
		}

		if choiceID.Valid {
			id := choiceID.UUID
			state.LatestSelectedChoiceID = &id
		}
		if isCorrect.Valid {
			v := isCorrect.Bool
			state.LatestIsCorrect = &v
		}
		if answeredAt.Valid {
			t := answeredAt.Time
			state.LatestAnsweredAt = &t
		}

		session.QuestionIDs = append(session.QuestionIDs, state.QuestionID)
		session.QuestionStates = append(session.QuestionStates, state)
	}
	return rows.Err()
}

// UpdateQuestionState implements store.PracticeSessionStore.UpdateQuestionState.
func (s *PostgresSessionStore) UpdateQuestionState(
	ctx context.Context,
	sessionID, userID uuid.UUID,
	state domain.QuestionState,
) error {
	if err := s.checkOwnership(ctx, sessionID, userID); err != nil {
		return err
	}

	query := `
		UPDATE practice_session_questions
		SET marked_for_review = $1,
		    latest_selected_choice_id = $2,
		    latest_is_correct = $3,
		    latest_answered_at = $4
		WHERE session_id = $5 AND question_id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		state.MarkedForReview,
		state.LatestSelectedChoiceID,
		state.LatestIsCorrect,
		state.LatestAnsweredAt,
		sessionID,
		state.QuestionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session question state: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrQuestionNotFound)
}

// SetStatus implements store.PracticeSessionStore.SetStatus.
func (s *PostgresSessionStore) SetStatus(
	ctx context.Context,
	sessionID, userID uuid.UUID,
	status domain.SessionStatus,
) error {
	query := `
		UPDATE practice_sessions
		SET status = $1
		WHERE id = $2 AND user_id = $3
	`
	result, err := s.db.ExecContext(ctx, query, string(status), sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to set session status: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrSessionNotFound)
}

// End implements store.PracticeSessionStore.End. The ended_at IS NULL guard
// makes the end transition a compare-and-set: of two concurrent double-ends
// only one can see the null and win.
func (s *PostgresSessionStore) End(
	ctx context.Context,
	sessionID, userID uuid.UUID,
	endedAt time.Time,
) error {
	query := `
		UPDATE practice_sessions
		SET status = $1, ended_at = $2
		WHERE id = $3 AND user_id = $4 AND ended_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query,
		string(domain.SessionStatusEnded), endedAt, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Zero rows: either the session is already ended or it does not exist
	// for this user. Distinguish so callers can report CONFLICT vs NOT_FOUND.
	if err := s.checkOwnership(ctx, sessionID, userID); err != nil {
		return err
	}
	return store.ErrSessionEnded
}

// checkOwnership returns ErrSessionNotFound unless the session exists and
// belongs to userID.
func (s *PostgresSessionStore) checkOwnership(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM practice_sessions WHERE id = $1 AND user_id = $2)`,
		sessionID, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check session ownership: %w", MapError(err))
	}
	if !exists {
		return store.ErrSessionNotFound
	}
	return nil
}
