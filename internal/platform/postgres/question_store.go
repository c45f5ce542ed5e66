package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresQuestionStore implements the store.QuestionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a new PostgreSQL implementation of the
// QuestionStore interface. If logger is nil, a default logger will be used.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure PostgresQuestionStore implements store.QuestionStore interface
var _ store.QuestionStore = (*PostgresQuestionStore)(nil)

// ListPublishedCandidateIDs implements store.QuestionStore.ListPublishedCandidateIDs.
// The ordering (created_at DESC, id ASC) is part of the contract: seeded
// shuffles downstream depend on it being deterministic.
func (s *PostgresQuestionStore) ListPublishedCandidateIDs(
	ctx context.Context,
	tagSlugs []string,
	difficulties []domain.Difficulty,
) ([]uuid.UUID, error) {
	query := `
		SELECT q.id
		FROM questions q
		WHERE q.status = $1
	`
	args := []any{string(domain.QuestionStatusPublished)}

	if len(difficulties) > 0 {
		args = append(args, difficultyStrings(difficulties))
		query += fmt.Sprintf(" AND q.difficulty = ANY($%d::text[])", len(args))
	}

	if len(tagSlugs) > 0 {
		args = append(args, tagSlugs)
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM question_tags qt
			WHERE qt.question_id = q.id AND qt.tag_slug = ANY($%d::text[])
		)`, len(args))
	}

	query += " ORDER BY q.created_at DESC, q.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate question IDs: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan question ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question IDs: %w", err)
	}

	return ids, nil
}

// GetPublishedByID implements store.QuestionStore.GetPublishedByID.
func (s *PostgresQuestionStore) GetPublishedByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Question, error) {
	questions, err := s.GetPublishedByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, store.ErrQuestionNotFound
	}
	return questions[0], nil
}

// GetPublishedBySlug implements store.QuestionStore.GetPublishedBySlug.
func (s *PostgresQuestionStore) GetPublishedBySlug(
	ctx context.Context,
	slug string,
) (*domain.Question, error) {
	query := `
		SELECT id FROM questions WHERE slug = $1 AND status = $2
	`
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, query, slug, string(domain.QuestionStatusPublished)).
		Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question by slug: %w", MapError(err))
	}

	return s.GetPublishedByID(ctx, id)
}

// GetPublishedByIDs implements store.QuestionStore.GetPublishedByIDs.
// Results preserve the requested ID order; missing or unpublished IDs are
// skipped silently.
func (s *PostgresQuestionStore) GetPublishedByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) ([]*domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, slug, stem_md, COALESCE(explanation_md, ''), difficulty, status,
		       created_at, updated_at
		FROM questions
		WHERE id = ANY($1::uuid[]) AND status = $2
	`
	rows, err := s.db.QueryContext(ctx, query, uuidStrings(ids), string(domain.QuestionStatusPublished))
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[uuid.UUID]*domain.Question, len(ids))
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.ID, &q.Slug, &q.StemMD, &q.ExplanationMD, &q.Difficulty, &q.Status,
			&q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		byID[q.ID] = &q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	if len(byID) == 0 {
		return nil, nil
	}

	if err := s.loadChoices(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, byID); err != nil {
		return nil, err
	}

	questions := make([]*domain.Question, 0, len(byID))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// loadChoices attaches the ordered choice set to each question in byID.
func (s *PostgresQuestionStore) loadChoices(
	ctx context.Context,
	byID map[uuid.UUID]*domain.Question,
) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT id, question_id, label, text_md, is_correct, COALESCE(explanation_md, ''), sort_order
		FROM choices
		WHERE question_id = ANY($1::uuid[])
		ORDER BY question_id, sort_order ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("failed to query choices: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(
			&c.ID, &c.QuestionID, &c.Label, &c.TextMD, &c.IsCorrect,
			&c.ExplanationMD, &c.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to scan choice: %w", err)
		}
		if q, ok := byID[c.QuestionID]; ok {
			q.Choices = append(q.Choices, c)
		}
	}
	return rows.Err()
}

// loadTags attaches tag slugs to each question in byID.
func (s *PostgresQuestionStore) loadTags(
	ctx context.Context,
	byID map[uuid.UUID]*domain.Question,
) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT question_id, tag_slug
		FROM question_tags
		WHERE question_id = ANY($1::uuid[])
		ORDER BY question_id, tag_slug ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("failed to query question tags: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var questionID uuid.UUID
		var slug string
		if err := rows.Scan(&questionID, &slug); err != nil {
			return fmt.Errorf("failed to scan question tag: %w", err)
		}
		if q, ok := byID[questionID]; ok {
			q.Tags = append(q.Tags, slug)
		}
	}
	return rows.Err()
}
