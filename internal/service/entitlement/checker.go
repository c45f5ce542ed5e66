// Package entitlement decides whether a user may use the practice engine.
// The decision is derived from the subscription row on every call; nothing
// is cached, so a billing webhook landing mid-session takes effect on the
// next request.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain/practice"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// ErrNotEntitled indicates the user has no subscription granting access to
// practice features.
var ErrNotEntitled = errors.New("user is not entitled to practice features")

// Checker reports whether a user is currently entitled.
type Checker interface {
	// Check returns nil when the user is entitled, ErrNotEntitled when the
	// user has no qualifying subscription, and any other error on storage
	// failure.
	Check(ctx context.Context, userID uuid.UUID) error
}

// Verify interface compliance at compile time
var _ Checker = (*checkerImpl)(nil)

type checkerImpl struct {
	subscriptionStore store.SubscriptionStore
	logger            *slog.Logger
	now               func() time.Time
}

// NewChecker creates a Checker backed by the given subscription store.
// If logger is nil, a default logger will be used.
func NewChecker(subscriptionStore store.SubscriptionStore, logger *slog.Logger) Checker {
	if subscriptionStore == nil {
		panic("subscriptionStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &checkerImpl{
		subscriptionStore: subscriptionStore,
		logger:            logger.With(slog.String("component", "entitlement_checker")),
		now:               time.Now,
	}
}

// Check implements Checker.Check.
func (c *checkerImpl) Check(ctx context.Context, userID uuid.UUID) error {
	sub, err := c.subscriptionStore.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSubscriptionNotFound) {
			return ErrNotEntitled
		}
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	if !practice.IsEntitled(sub, c.now().UTC()) {
		c.logger.Debug("subscription does not grant access",
			slog.String("user_id", userID.String()),
			slog.String("status", string(sub.Status)))
		return ErrNotEntitled
	}

	return nil
}
