package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// SubscriptionStore defines read access to billing state. The billing
// provider's webhook pipeline (out of scope here) writes these rows; the
// engine only ever reads them, fresh, immediately before an entitlement
// check.
type SubscriptionStore interface {
	// GetByUserID retrieves the user's current subscription.
	// Returns ErrSubscriptionNotFound if the user has none.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
}
