package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus mirrors the billing provider's subscription state.
// Only active and trialing subscriptions grant entitlement, and only while
// the current period has not expired.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Validate checks that the status is one of the known values.
func (s SubscriptionStatus) Validate() error {
	switch s {
	case SubscriptionStatusActive,
		SubscriptionStatusTrialing,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled:
		return nil
	default:
		return ErrInvalidSubscriptionStatus
	}
}

// Subscription holds the billing state used to derive entitlement.
// Entitlement is never stored or cached; it is recomputed from the current
// subscription row on every gated operation.
type Subscription struct {
	UserID            uuid.UUID          `json:"user_id"`
	Plan              string             `json:"plan"`
	Status            SubscriptionStatus `json:"status"`
	CurrentPeriodEnd  time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd bool               `json:"cancel_at_period_end"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
