package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresAttemptStore implements the store.AttemptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the
// AttemptStore interface. If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// WithTx implements store.AttemptStore.WithTx.
func (s *PostgresAttemptStore) WithTx(tx store.DBTX) store.AttemptStore {
	return &PostgresAttemptStore{db: tx, logger: s.logger}
}

// Create implements store.AttemptStore.Create. Attempts are append-only.
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	if err := attempt.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO attempts (
			id, user_id, question_id, practice_session_id, selected_choice_id,
			is_correct, time_spent_seconds, answered_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.QuestionID,
		attempt.PracticeSessionID,
		attempt.SelectedChoiceID,
		attempt.IsCorrect,
		attempt.TimeSpentSeconds,
		attempt.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", MapError(err))
	}

	return nil
}

// ListBySession implements store.AttemptStore.ListBySession. Attempt id is
// the stable tie-breaker when answered_at collides.
func (s *PostgresAttemptStore) ListBySession(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) ([]*domain.Attempt, error) {
	query := `
		SELECT id, user_id, question_id, practice_session_id, selected_choice_id,
		       is_correct, time_spent_seconds, answered_at
		FROM attempts
		WHERE practice_session_id = $1 AND user_id = $2
		ORDER BY answered_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session attempts: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var attempts []*domain.Attempt
	for rows.Next() {
		var a domain.Attempt
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.QuestionID, &a.PracticeSessionID,
			&a.SelectedChoiceID, &a.IsCorrect, &a.TimeSpentSeconds, &a.AnsweredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return attempts, nil
}

// MostRecentAnsweredAtByQuestionIDs implements
// store.AttemptStore.MostRecentAnsweredAtByQuestionIDs.
func (s *PostgresAttemptStore) MostRecentAnsweredAtByQuestionIDs(
	ctx context.Context,
	userID uuid.UUID,
	questionIDs []uuid.UUID,
) (map[uuid.UUID]time.Time, error) {
	if len(questionIDs) == 0 {
		return map[uuid.UUID]time.Time{}, nil
	}

	query := `
		SELECT question_id, MAX(answered_at)
		FROM attempts
		WHERE user_id = $1 AND question_id = ANY($2::uuid[])
		GROUP BY question_id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, uuidStrings(questionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt history: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	history := make(map[uuid.UUID]time.Time)
	for rows.Next() {
		var questionID uuid.UUID
		var answeredAt time.Time
		if err := rows.Scan(&questionID, &answeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt history row: %w", err)
		}
		history[questionID] = answeredAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempt history: %w", err)
	}

	return history, nil
}

// ListMissed implements store.AttemptStore.ListMissed. A question counts as
// missed while the user's latest attempt at it is incorrect; "latest" is
// decided by answered_at with attempt id as the stable tie-breaker.
func (s *PostgresAttemptStore) ListMissed(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*store.MissedQuestion, error) {
	query := `
		WITH latest AS (
			SELECT DISTINCT ON (question_id)
				id, user_id, question_id, practice_session_id, selected_choice_id,
				is_correct, time_spent_seconds, answered_at
			FROM attempts
			WHERE user_id = $1
			ORDER BY question_id, answered_at DESC, id DESC
		)
		SELECT l.id, l.user_id, l.question_id, l.practice_session_id,
		       l.selected_choice_id, l.is_correct, l.time_spent_seconds, l.answered_at,
		       q.id, q.slug, q.stem_md, COALESCE(q.explanation_md, ''), q.difficulty,
		       q.status, q.created_at, q.updated_at
		FROM latest l
		JOIN questions q ON q.id = l.question_id AND q.status = $2
		WHERE l.is_correct = FALSE
		ORDER BY l.answered_at DESC, l.id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := s.db.QueryContext(ctx, query,
		userID, string(domain.QuestionStatusPublished), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query missed questions: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var missed []*store.MissedQuestion
	for rows.Next() {
		var a domain.Attempt
		var q domain.Question
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.QuestionID, &a.PracticeSessionID,
			&a.SelectedChoiceID, &a.IsCorrect, &a.TimeSpentSeconds, &a.AnsweredAt,
			&q.ID, &q.Slug, &q.StemMD, &q.ExplanationMD, &q.Difficulty,
			&q.Status, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan missed question: %w", err)
		}
		missed = append(missed, &store.MissedQuestion{
			Question:      &q,
			LatestAttempt: &a,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missed questions: %w", err)
	}

	return missed, nil
}

// Counts implements store.AttemptStore.Counts.
func (s *PostgresAttemptStore) Counts(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (store.AttemptCounts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM attempts
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR answered_at >= $2)
	`
	var sinceArg any
	if !since.IsZero() {
		sinceArg = since
	}

	var counts store.AttemptCounts
	err := s.db.QueryRowContext(ctx, query, userID, sinceArg).
		Scan(&counts.Total, &counts.Correct)
	if err != nil {
		return store.AttemptCounts{}, fmt.Errorf("failed to count attempts: %w", MapError(err))
	}

	return counts, nil
}

// ListAnsweredAt implements store.AttemptStore.ListAnsweredAt.
func (s *PostgresAttemptStore) ListAnsweredAt(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]time.Time, error) {
	query := `
		SELECT answered_at
		FROM attempts
		WHERE user_id = $1 AND answered_at >= $2
		ORDER BY answered_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt timestamps: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan attempt timestamp: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempt timestamps: %w", err)
	}

	return times, nil
}
