// Package stats assembles the progress dashboard: lifetime and rolling-window
// accuracy, the daily practice streak and the missed-question list. All
// aggregation math lives in internal/domain/practice; this package only
// fetches and shapes.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/domain/practice"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

const (
	// defaultWindowDays is the rolling window shown on the dashboard.
	defaultWindowDays = 30

	// streakLookbackDays bounds how far back attempts are fetched for streak
	// computation. A streak longer than a year is reported as capped.
	streakLookbackDays = 366

	// maxMissedLimit caps one page of the missed-question list.
	maxMissedLimit = 100

	defaultMissedLimit = 20
)

// WindowStats holds attempt aggregates for one time window.
type WindowStats struct {
	Days     int     `json:"days,omitempty"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// DayActivity is one day of practice volume inside the rolling window.
type DayActivity struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// Dashboard is the learner's progress roll-up.
type Dashboard struct {
	AllTime    WindowStats   `json:"all_time"`
	Window     WindowStats   `json:"window"`
	StreakDays int           `json:"streak_days"`
	Activity   []DayActivity `json:"activity"`
}

// MissedQuestionSummary is one entry of the missed-question list: a question
// whose latest attempt was incorrect, with enough context to retry it.
type MissedQuestionSummary struct {
	QuestionID       uuid.UUID         `json:"question_id"`
	Slug             string            `json:"slug"`
	StemMD           string            `json:"stem_md"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	Tags             []string          `json:"tags,omitempty"`
	SelectedChoiceID uuid.UUID         `json:"selected_choice_id"`
	AnsweredAt       time.Time         `json:"answered_at"`
}

// Service provides the dashboard read path.
type Service interface {
	// GetDashboard computes the user's lifetime and rolling-window stats,
	// current streak and daily activity.
	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)

	// ListMissedQuestions pages through the questions the user most recently
	// got wrong, newest first. A zero limit falls back to the default;
	// oversized limits are clamped.
	ListMissedQuestions(
		ctx context.Context,
		userID uuid.UUID,
		limit, offset int,
	) ([]MissedQuestionSummary, error)
}

// Verify interface compliance at compile time
var _ Service = (*statsServiceImpl)(nil)

type statsServiceImpl struct {
	attemptStore store.AttemptStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates a new stats Service implementation.
// If logger is nil, a default logger will be used.
func NewService(attemptStore store.AttemptStore, logger *slog.Logger) Service {
	if attemptStore == nil {
		panic("attemptStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &statsServiceImpl{
		attemptStore: attemptStore,
		logger:       logger.With(slog.String("component", "stats_service")),
		now:          time.Now,
	}
}

// GetDashboard implements Service.GetDashboard.
func (s *statsServiceImpl) GetDashboard(
	ctx context.Context,
	userID uuid.UUID,
) (*Dashboard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	allTime, err := s.attemptStore.Counts(ctx, userID, time.Time{})
	if err != nil {
		log.Error("failed to load attempt counts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load attempt counts: %w", err)
	}

	windowSince := now.AddDate(0, 0, -defaultWindowDays)
	window, err := s.attemptStore.Counts(ctx, userID, windowSince)
	if err != nil {
		return nil, fmt.Errorf("failed to load window counts: %w", err)
	}

	streakSince := now.AddDate(0, 0, -streakLookbackDays)
	answeredAt, err := s.attemptStore.ListAnsweredAt(ctx, userID, streakSince)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt history: %w", err)
	}

	return &Dashboard{
		AllTime: WindowStats{
			Total:    allTime.Total,
			Correct:  allTime.Correct,
			Accuracy: practice.Accuracy(allTime.Total, allTime.Correct),
		},
		Window: WindowStats{
			Days:     defaultWindowDays,
			Total:    window.Total,
			Correct:  window.Correct,
			Accuracy: practice.Accuracy(window.Total, window.Correct),
		},
		StreakDays: practice.Streak(answeredAt, now),
		Activity:   dailyActivity(answeredAt, defaultWindowDays, now),
	}, nil
}

// ListMissedQuestions implements Service.ListMissedQuestions.
func (s *statsServiceImpl) ListMissedQuestions(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]MissedQuestionSummary, error) {
	if limit <= 0 {
		limit = defaultMissedLimit
	}
	if limit > maxMissedLimit {
		limit = maxMissedLimit
	}
	if offset < 0 {
		offset = 0
	}

	missed, err := s.attemptStore.ListMissed(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list missed questions: %w", err)
	}

	summaries := make([]MissedQuestionSummary, len(missed))
	for i, m := range missed {
		summaries[i] = MissedQuestionSummary{
			QuestionID:       m.Question.ID,
			Slug:             m.Question.Slug,
			StemMD:           m.Question.StemMD,
			Difficulty:       m.Question.Difficulty,
			Tags:             m.Question.Tags,
			SelectedChoiceID: m.LatestAttempt.SelectedChoiceID,
			AnsweredAt:       m.LatestAttempt.AnsweredAt,
		}
	}
	return summaries, nil
}

// dailyActivity buckets attempt timestamps into UTC days inside the window,
// oldest day first. Days without attempts are omitted.
func dailyActivity(answeredAt []time.Time, days int, now time.Time) []DayActivity {
	cutoff := now.UTC().AddDate(0, 0, -days)

	counts := make(map[time.Time]int)
	for _, at := range answeredAt {
		at = at.UTC()
		if at.Before(cutoff) {
			continue
		}
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		counts[day]++
	}

	out := make([]DayActivity, 0, len(counts))
	for day := cutoff; !day.After(now); day = day.AddDate(0, 0, 1) {
		key := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		if count, ok := counts[key]; ok {
			out = append(out, DayActivity{Day: key, Count: count})
		}
	}
	return out
}
