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

// PostgresIdempotencyStore implements the store.IdempotencyStore interface
// using a PostgreSQL database as the storage backend. The claim relies on
// the (user_id, action, key) primary key: concurrent claims race on the
// insert and exactly one wins, across processes and replicas.
type PostgresIdempotencyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresIdempotencyStore creates a new PostgreSQL implementation of the
// IdempotencyStore interface. If logger is nil, a default logger will be used.
func NewPostgresIdempotencyStore(db store.DBTX, logger *slog.Logger) *PostgresIdempotencyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresIdempotencyStore{
		db:     db,
		logger: logger.With(slog.String("component", "idempotency_store")),
	}
}

// Ensure PostgresIdempotencyStore implements store.IdempotencyStore interface
var _ store.IdempotencyStore = (*PostgresIdempotencyStore)(nil)

// Claim implements store.IdempotencyStore.Claim. The upsert only replaces
// an existing record when it has expired, which resets a stale claim in the
// same atomic statement; a live record leaves zero rows affected and the
// claim is reported as already held.
func (s *PostgresIdempotencyStore) Claim(
	ctx context.Context,
	userID uuid.UUID,
	action, key string,
	expiresAt time.Time,
) error {
	query := `
		INSERT INTO idempotency_keys (user_id, action, key, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, action, key) DO UPDATE
		SET expires_at = EXCLUDED.expires_at,
		    stored_result = NULL,
		    stored_error = NULL,
		    created_at = EXCLUDED.created_at
		WHERE idempotency_keys.expires_at <= $5
	`
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query, userID, action, key, expiresAt, now)
	if err != nil {
		return fmt.Errorf("failed to claim idempotency key: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrIdempotencyKeyClaimed
	}

	return nil
}

// Get implements store.IdempotencyStore.Get.
func (s *PostgresIdempotencyStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	action, key string,
) (*domain.IdempotencyKeyRecord, error) {
	query := `
		SELECT user_id, action, key, expires_at, stored_result, stored_error, created_at
		FROM idempotency_keys
		WHERE user_id = $1 AND action = $2 AND key = $3
	`
	var record domain.IdempotencyKeyRecord
	var storedResult []byte
	var storedError sql.NullString

	err := s.db.QueryRowContext(ctx, query, userID, action, key).Scan(
		&record.UserID, &record.Action, &record.Key, &record.ExpiresAt,
		&storedResult, &storedError, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrIdempotencyKeyNotFound
		}
		return nil, fmt.Errorf("failed to get idempotency key: %w", MapError(err))
	}

	if len(storedResult) > 0 {
		record.StoredResult = json.RawMessage(storedResult)
	}
	if storedError.Valid {
		record.StoredError = storedError.String
	}

	return &record, nil
}

// StoreResult implements store.IdempotencyStore.StoreResult.
func (s *PostgresIdempotencyStore) StoreResult(
	ctx context.Context,
	userID uuid.UUID,
	action, key string,
	resultData json.RawMessage,
) error {
	query := `
		UPDATE idempotency_keys
		SET stored_result = $1, stored_error = NULL
		WHERE user_id = $2 AND action = $3 AND key = $4
	`
	result, err := s.db.ExecContext(ctx, query, []byte(resultData), userID, action, key)
	if err != nil {
		return fmt.Errorf("failed to store idempotency result: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrIdempotencyKeyNotFound)
}

// StoreError implements store.IdempotencyStore.StoreError.
func (s *PostgresIdempotencyStore) StoreError(
	ctx context.Context,
	userID uuid.UUID,
	action, key string,
	message string,
) error {
	query := `
		UPDATE idempotency_keys
		SET stored_error = $1, stored_result = NULL
		WHERE user_id = $2 AND action = $3 AND key = $4
	`
	result, err := s.db.ExecContext(ctx, query, message, userID, action, key)
	if err != nil {
		return fmt.Errorf("failed to store idempotency error: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrIdempotencyKeyNotFound)
}
