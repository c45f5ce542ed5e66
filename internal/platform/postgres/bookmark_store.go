package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresBookmarkStore implements the store.BookmarkStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookmarkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookmarkStore creates a new PostgreSQL implementation of the
// BookmarkStore interface. If logger is nil, a default logger will be used.
func NewPostgresBookmarkStore(db store.DBTX, logger *slog.Logger) *PostgresBookmarkStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookmarkStore{
		db:     db,
		logger: logger.With(slog.String("component", "bookmark_store")),
	}
}

// Ensure PostgresBookmarkStore implements store.BookmarkStore interface
var _ store.BookmarkStore = (*PostgresBookmarkStore)(nil)

// Toggle implements store.BookmarkStore.Toggle. The delete-first approach
// makes the toggle a single round trip in either direction.
func (s *PostgresBookmarkStore) Toggle(
	ctx context.Context,
	userID, questionID uuid.UUID,
	now time.Time,
) (bool, error) {
	deleteQuery := `
		DELETE FROM bookmarks WHERE user_id = $1 AND question_id = $2
	`
	result, err := s.db.ExecContext(ctx, deleteQuery, userID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		// Bookmark existed and is now removed.
		return false, nil
	}

	insertQuery := `
		INSERT INTO bookmarks (user_id, question_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, question_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, insertQuery, userID, questionID, now.UTC()); err != nil {
		return false, fmt.Errorf("failed to insert bookmark: %w", MapError(err))
	}

	return true, nil
}

// ListQuestionIDs implements store.BookmarkStore.ListQuestionIDs.
func (s *PostgresBookmarkStore) ListQuestionIDs(
	ctx context.Context,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	query := `
		SELECT question_id
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC, question_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}

	return ids, nil
}
