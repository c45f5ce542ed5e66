// Package idempotency provides the retry guard wrapped around every mutating
// practice operation. A (user, action, key) triple executes at most once
// within its TTL; retries replay the stored outcome, success or failure,
// instead of re-running the operation.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// Guard errors
var (
	// ErrKeyRequired indicates that the caller passed an empty idempotency key.
	ErrKeyRequired = errors.New("idempotency key is required")

	// ErrInFlight indicates that another request holding the same key was
	// still executing when the replay wait budget ran out, so there is no
	// outcome to replay yet.
	ErrInFlight = errors.New("request with this idempotency key is still in progress")
)

const (
	// defaultReplayWait bounds how long a retry waits for the concurrent
	// first execution to store its outcome before surfacing ErrInFlight.
	defaultReplayWait = 3 * time.Second

	// defaultReplayPollInterval is the pause between replay polls.
	defaultReplayPollInterval = 25 * time.Millisecond
)

// ReplayedError is a failure outcome replayed from a previous execution.
// Code carries the original error classification so the transport layer can
// reproduce the original response.
type ReplayedError struct {
	Code    string
	Message string
}

// Error implements the error interface for ReplayedError.
func (e *ReplayedError) Error() string { return e.Message }

// Classifier maps an execution error to a stable code and a client-safe
// message. Both are stored with the record, so a replayed failure keeps its
// original classification without persisting raw internal error text.
type Classifier func(error) (code, message string)

// Fn is the operation protected by the guard. Its result is JSON-marshaled
// and stored for replay.
type Fn func(ctx context.Context) (any, error)

// storedFailure is the envelope persisted in the record's error column.
type storedFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Guard wraps mutating operations with claim-once semantics backed by an
// IdempotencyStore. The claim itself is atomic at the storage layer, so the
// guard holds no in-process state and is safe across replicas.
type Guard struct {
	store        store.IdempotencyStore
	ttl          time.Duration
	classify     Classifier
	logger       *slog.Logger
	now          func() time.Time
	replayWait   time.Duration
	pollInterval time.Duration
}

// NewGuard creates a Guard with the given record TTL.
// If classify is nil, replayed failures carry an empty code. If logger is
// nil, a default logger will be used.
func NewGuard(
	idempotencyStore store.IdempotencyStore,
	ttl time.Duration,
	classify Classifier,
	logger *slog.Logger,
) *Guard {
	if idempotencyStore == nil {
		panic("idempotencyStore cannot be nil")
	}
	if ttl <= 0 {
		panic("ttl must be positive")
	}
	if classify == nil {
		classify = func(err error) (string, string) { return "", err.Error() }
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Guard{
		store:        idempotencyStore,
		ttl:          ttl,
		classify:     classify,
		logger:       logger.With(slog.String("component", "idempotency_guard")),
		now:          time.Now,
		replayWait:   defaultReplayWait,
		pollInterval: defaultReplayPollInterval,
	}
}

// Execute runs fn at most once per (userID, action, key) within the TTL.
//
// The first caller claims the key and executes; its outcome is stored and
// returned. Later callers with the same key get the stored outcome replayed
// verbatim: the result payload on success, a ReplayedError on failure. A
// retry arriving while the first execution is still running waits for the
// outcome to land, so concurrent calls with the same key observe identical
// results; ErrInFlight surfaces only when the first execution has not
// finished within the replay wait budget. Once the record expires the key
// may be claimed again and fn re-executes.
func (g *Guard) Execute(
	ctx context.Context,
	userID uuid.UUID,
	action, key string,
	fn Fn,
) (json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if key == "" {
		return nil, ErrKeyRequired
	}

	expiresAt := g.now().UTC().Add(g.ttl)
	err := g.store.Claim(ctx, userID, action, key, expiresAt)
	if errors.Is(err, store.ErrIdempotencyKeyClaimed) {
		return g.replay(ctx, userID, action, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim idempotency key: %w", err)
	}

	result, execErr := fn(ctx)
	if execErr != nil {
		g.storeFailure(ctx, userID, action, key, execErr)
		return nil, execErr
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal idempotent result: %w", err)
	}

	if err := g.store.StoreResult(ctx, userID, action, key, payload); err != nil {
		// The operation itself succeeded; losing the stored outcome only
		// degrades a future retry into ErrInFlight until the record expires.
		log.Error("failed to store idempotent result",
			slog.String("error", err.Error()),
			slog.String("action", action))
	}

	return payload, nil
}

// replay surfaces the stored outcome of an earlier execution. While the
// record is still pending it polls within the wait budget, so a retry racing
// the first execution returns the same outcome instead of ErrInFlight.
func (g *Guard) replay(
	ctx context.Context,
	userID uuid.UUID,
	action, key string,
) (json.RawMessage, error) {
	var waited time.Duration
	for {
		record, err := g.store.Get(ctx, userID, action, key)
		if err != nil && !errors.Is(err, store.ErrIdempotencyKeyNotFound) {
			return nil, fmt.Errorf("failed to load idempotency record: %w", err)
		}
		// A missing record means the claim raced a record that vanished in
		// between; the holder has not stored its outcome yet. Keep waiting.
		if err == nil && record.Completed() {
			return storedOutcome(record)
		}

		if waited >= g.replayWait {
			return nil, ErrInFlight
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.pollInterval):
			waited += g.pollInterval
		}
	}
}

// storedOutcome unpacks a completed record into its replayable result or
// failure.
func storedOutcome(record *domain.IdempotencyKeyRecord) (json.RawMessage, error) {
	if record.StoredError != "" {
		var failure storedFailure
		if err := json.Unmarshal([]byte(record.StoredError), &failure); err == nil &&
			failure.Message != "" {
			return nil, &ReplayedError{Code: failure.Code, Message: failure.Message}
		}
		return nil, &ReplayedError{Message: record.StoredError}
	}
	return record.StoredResult, nil
}

// storeFailure records a failed execution, best effort.
func (g *Guard) storeFailure(
	ctx context.Context,
	userID uuid.UUID,
	action, key string,
	execErr error,
) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	code, message := g.classify(execErr)
	envelope, err := json.Marshal(storedFailure{
		Code:    code,
		Message: message,
	})
	if err != nil {
		log.Error("failed to marshal idempotent failure",
			slog.String("error", err.Error()),
			slog.String("action", action))
		return
	}

	if err := g.store.StoreError(ctx, userID, action, key, string(envelope)); err != nil {
		log.Error("failed to store idempotent failure",
			slog.String("error", err.Error()),
			slog.String("action", action))
	}
}
