package stats

import (
	"context"
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

type fakeAttemptStore struct {
	attempts []*domain.Attempt
	missed   []*store.MissedQuestion

	gotLimit  int
	gotOffset int
}

func (f *fakeAttemptStore) Create(_ context.Context, _ *domain.Attempt) error { return nil }

func (f *fakeAttemptStore) ListBySession(
	_ context.Context,
	_, _ uuid.UUID,
) ([]*domain.Attempt, error) {
	return nil, nil
}

func (f *fakeAttemptStore) MostRecentAnsweredAtByQuestionIDs(
	_ context.Context,
	_ uuid.UUID,
	_ []uuid.UUID,
) (map[uuid.UUID]time.Time, error) {
	return nil, nil
}

func (f *fakeAttemptStore) ListMissed(
	_ context.Context,
	_ uuid.UUID,
	limit, offset int,
) ([]*store.MissedQuestion, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	return f.missed, nil
}

func (f *fakeAttemptStore) Counts(
	_ context.Context,
	_ uuid.UUID,
	since time.Time,
) (store.AttemptCounts, error) {
	var counts store.AttemptCounts
	for _, a := range f.attempts {
		if !since.IsZero() && a.AnsweredAt.Before(since) {
			continue
		}
		counts.Total++
		if a.IsCorrect {
			counts.Correct++
		}
	}
	return counts, nil
}

func (f *fakeAttemptStore) ListAnsweredAt(
	_ context.Context,
	_ uuid.UUID,
	since time.Time,
) ([]time.Time, error) {
	var out []time.Time
	for _, a := range f.attempts {
		if a.AnsweredAt.Before(since) {
			continue
		}
		out = append(out, a.AnsweredAt)
	}
	return out, nil
}

func (f *fakeAttemptStore) WithTx(_ store.DBTX) store.AttemptStore { return f }

func attempt(answeredAt time.Time, correct bool) *domain.Attempt {
	return &domain.Attempt{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		QuestionID:       uuid.New(),
		SelectedChoiceID: uuid.New(),
		IsCorrect:        correct,
		AnsweredAt:       answeredAt,
	}
}

func newTestService(fake *fakeAttemptStore, now time.Time) *statsServiceImpl {
	svc := NewService(fake, slog.New(slog.NewTextHandler(io.Discard, nil))).(*statsServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetDashboard(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 31, 18, 0, 0, 0, time.UTC)

	fake := &fakeAttemptStore{
		attempts: []*domain.Attempt{
			// Two days of recent activity, today and yesterday.
			attempt(now.Add(-2*time.Hour), true),
			attempt(now.Add(-3*time.Hour), false),
			attempt(now.AddDate(0, 0, -1), true),
			// Outside the 30-day window but inside streak lookback.
			attempt(now.AddDate(0, 0, -45), true),
		},
	}

	dashboard, err := newTestService(fake, now).GetDashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 4, dashboard.AllTime.Total)
	assert.Equal(t, 3, dashboard.AllTime.Correct)
	assert.InDelta(t, 0.75, dashboard.AllTime.Accuracy, 1e-9)

	assert.Equal(t, 30, dashboard.Window.Days)
	assert.Equal(t, 3, dashboard.Window.Total)
	assert.Equal(t, 2, dashboard.Window.Correct)
	assert.InDelta(t, 2.0/3.0, dashboard.Window.Accuracy, 1e-9)

	// Attempts today and yesterday, nothing the day before.
	assert.Equal(t, 2, dashboard.StreakDays)

	require.Len(t, dashboard.Activity, 2)
	assert.Equal(t, 1, dashboard.Activity[0].Count)
	assert.Equal(t, 2, dashboard.Activity[1].Count)
	assert.True(t, dashboard.Activity[0].Day.Before(dashboard.Activity[1].Day))
}

func TestGetDashboardEmpty(t *testing.T) {
	t.Parallel()

	dashboard, err := newTestService(&fakeAttemptStore{}, time.Now()).
		GetDashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, dashboard.AllTime.Total)
	assert.Zero(t, dashboard.AllTime.Accuracy)
	assert.Zero(t, dashboard.StreakDays)
	assert.Empty(t, dashboard.Activity)
}

func TestListMissedQuestions(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	choiceID := uuid.New()
	answeredAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

	fake := &fakeAttemptStore{
		missed: []*store.MissedQuestion{
			{
				Question: &domain.Question{
					ID:         questionID,
					Slug:       "murmur-grading",
					StemMD:     "Which murmur?",
					Difficulty: domain.DifficultyHard,
					Tags:       []string{"cardiology"},
				},
				LatestAttempt: &domain.Attempt{
					ID:               uuid.New(),
					QuestionID:       questionID,
					SelectedChoiceID: choiceID,
					IsCorrect:        false,
					AnsweredAt:       answeredAt,
				},
			},
		},
	}

	svc := newTestService(fake, time.Now())
	summaries, err := svc.ListMissedQuestions(context.Background(), uuid.New(), 0, -5)
	require.NoError(t, err)

	require.Len(t, summaries, 1)
	assert.Equal(t, questionID, summaries[0].QuestionID)
	assert.Equal(t, "murmur-grading", summaries[0].Slug)
	assert.Equal(t, choiceID, summaries[0].SelectedChoiceID)
	assert.Equal(t, answeredAt, summaries[0].AnsweredAt)

	// Defaults applied for limit and offset.
	assert.Equal(t, defaultMissedLimit, fake.gotLimit)
	assert.Zero(t, fake.gotOffset)
}

func TestListMissedQuestionsClampsLimit(t *testing.T) {
	t.Parallel()

	fake := &fakeAttemptStore{}
	svc := newTestService(fake, time.Now())

	_, err := svc.ListMissedQuestions(context.Background(), uuid.New(), 1000, 10)
	require.NoError(t, err)
	assert.Equal(t, maxMissedLimit, fake.gotLimit)
	assert.Equal(t, 10, fake.gotOffset)
}
