package practice

import (
	"time"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// IsEntitled derives access from the current subscription state. A user is
// entitled while the subscription is active or trialing and the current
// period has not expired. Entitlement is never cached; callers read the
// subscription fresh before every check.
func IsEntitled(sub *domain.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}

	switch sub.Status {
	case domain.SubscriptionStatusActive, domain.SubscriptionStatusTrialing:
	default:
		return false
	}

	return sub.CurrentPeriodEnd.After(now)
}

// ShouldShowExplanation decides whether correctness and explanations may be
// revealed to the learner. Tutor mode reveals immediately; exam mode
// withholds until the session has ended.
func ShouldShowExplanation(mode domain.SessionMode, sessionEnded bool) bool {
	if mode == domain.SessionModeTutor {
		return true
	}
	return sessionEnded
}
