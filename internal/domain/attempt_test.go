package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttempt(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	questionID := uuid.New()
	choiceID := uuid.New()
	sessionID := uuid.New()
	answeredAt := time.Date(2026, 2, 10, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	attempt, err := NewAttempt(userID, questionID, choiceID, &sessionID, true, 42, answeredAt)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, attempt.ID)
	assert.Equal(t, &sessionID, attempt.PracticeSessionID)
	assert.True(t, attempt.IsCorrect)
	assert.Equal(t, 42, attempt.TimeSpentSeconds)
	assert.Equal(t, time.UTC, attempt.AnsweredAt.Location())
}

func TestNewAttemptWithoutSession(t *testing.T) {
	t.Parallel()

	attempt, err := NewAttempt(uuid.New(), uuid.New(), uuid.New(), nil, false, 0, time.Now())
	require.NoError(t, err)
	assert.Nil(t, attempt.PracticeSessionID)
}

func TestNewAttemptValidation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	questionID := uuid.New()
	choiceID := uuid.New()
	now := time.Now()

	tests := []struct {
		name       string
		userID     uuid.UUID
		questionID uuid.UUID
		choiceID   uuid.UUID
		timeSpent  int
		wantErr    error
	}{
		{"empty user", uuid.Nil, questionID, choiceID, 0, ErrAttemptUserIDEmpty},
		{"empty question", userID, uuid.Nil, choiceID, 0, ErrAttemptQuestionIDEmpty},
		{"empty choice", userID, questionID, uuid.Nil, 0, ErrAttemptChoiceIDEmpty},
		{"negative time", userID, questionID, choiceID, -1, ErrAttemptNegativeTime},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewAttempt(tc.userID, tc.questionID, tc.choiceID, nil, false, tc.timeSpent, now)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
