package practice

import (
	"time"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// Accuracy returns the ratio of correct answers to total answers.
// Returns 0 when total is zero or negative.
func Accuracy(total, correct int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// Streak counts the consecutive UTC calendar days, ending today, on which
// at least one attempt was made. A day without an attempt breaks the run,
// and a missing attempt for today yields 0 regardless of past history.
func Streak(attemptTimes []time.Time, now time.Time) int {
	if len(attemptTimes) == 0 {
		return 0
	}

	days := make(map[time.Time]bool, len(attemptTimes))
	for _, t := range attemptTimes {
		days[utcDay(t)] = true
	}

	day := utcDay(now)
	streak := 0
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// utcDay truncates a time to its UTC calendar day.
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FilterInWindow returns the attempts answered within the trailing window of
// the given number of days. Returns an empty slice for days <= 0.
func FilterInWindow(attempts []domain.Attempt, days int, now time.Time) []domain.Attempt {
	if days <= 0 {
		return nil
	}

	cutoff := now.UTC().AddDate(0, 0, -days)
	var in []domain.Attempt
	for _, a := range attempts {
		if !a.AnsweredAt.Before(cutoff) {
			in = append(in, a)
		}
	}
	return in
}
