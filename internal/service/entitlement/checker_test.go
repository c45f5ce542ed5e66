package entitlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

type fakeSubscriptionStore struct {
	sub *domain.Subscription
	err error
}

func (f *fakeSubscriptionStore) GetByUserID(
	_ context.Context,
	_ uuid.UUID,
) (*domain.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

func newTestChecker(subs store.SubscriptionStore, now time.Time) *checkerImpl {
	c := NewChecker(subs, slog.New(slog.NewTextHandler(io.Discard, nil))).(*checkerImpl)
	c.now = func() time.Time { return now }
	return c
}

func TestCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	subscription := func(status domain.SubscriptionStatus, periodEnd time.Time) *domain.Subscription {
		return &domain.Subscription{
			UserID:           userID,
			Plan:             "monthly",
			Status:           status,
			CurrentPeriodEnd: periodEnd,
		}
	}

	tests := []struct {
		name    string
		sub     *domain.Subscription
		wantErr error
	}{
		{
			name: "active subscription within period is entitled",
			sub:  subscription(domain.SubscriptionStatusActive, now.Add(24*time.Hour)),
		},
		{
			name: "trialing subscription within period is entitled",
			sub:  subscription(domain.SubscriptionStatusTrialing, now.Add(time.Second)),
		},
		{
			name:    "active subscription past period end is not entitled",
			sub:     subscription(domain.SubscriptionStatusActive, now.Add(-time.Second)),
			wantErr: ErrNotEntitled,
		},
		{
			name:    "past_due subscription is not entitled",
			sub:     subscription(domain.SubscriptionStatusPastDue, now.Add(24*time.Hour)),
			wantErr: ErrNotEntitled,
		},
		{
			name:    "canceled subscription is not entitled",
			sub:     subscription(domain.SubscriptionStatusCanceled, now.Add(24*time.Hour)),
			wantErr: ErrNotEntitled,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			checker := newTestChecker(&fakeSubscriptionStore{sub: tc.sub}, now)
			err := checker.Check(context.Background(), userID)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckMissingSubscription(t *testing.T) {
	t.Parallel()

	checker := newTestChecker(
		&fakeSubscriptionStore{err: store.ErrSubscriptionNotFound},
		time.Now(),
	)
	err := checker.Check(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotEntitled)
}

func TestCheckStoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	checker := newTestChecker(&fakeSubscriptionStore{err: storeErr}, time.Now())

	err := checker.Check(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNotEntitled)
}
