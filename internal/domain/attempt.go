package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attempt-specific validation errors
var (
	// ErrAttemptIDEmpty is returned when an attempt ID is empty or nil.
	ErrAttemptIDEmpty = errors.New("attempt ID cannot be empty")

	// ErrAttemptUserIDEmpty is returned when an attempt's user ID is empty or nil.
	ErrAttemptUserIDEmpty = errors.New("attempt user ID cannot be empty")

	// ErrAttemptQuestionIDEmpty is returned when an attempt's question ID is empty or nil.
	ErrAttemptQuestionIDEmpty = errors.New("attempt question ID cannot be empty")

	// ErrAttemptChoiceIDEmpty is returned when an attempt's selected choice ID is empty or nil.
	ErrAttemptChoiceIDEmpty = errors.New("attempt selected choice ID cannot be empty")

	// ErrAttemptNegativeTime is returned when an attempt's time spent is negative.
	ErrAttemptNegativeTime = errors.New("attempt time spent cannot be negative")
)

// Attempt records a single answer submission for a question. Attempts are
// append-only: a retried submission guarded by an idempotency key must not
// create a second row. PracticeSessionID is nil for ad-hoc practice outside
// a session.
type Attempt struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	QuestionID        uuid.UUID  `json:"question_id"`
	PracticeSessionID *uuid.UUID `json:"practice_session_id,omitempty"`
	SelectedChoiceID  uuid.UUID  `json:"selected_choice_id"`
	IsCorrect         bool       `json:"is_correct"`
	TimeSpentSeconds  int        `json:"time_spent_seconds"`
	AnsweredAt        time.Time  `json:"answered_at"`
}

// NewAttempt creates a new Attempt for the given submission.
// It generates a new UUID for the attempt ID and stamps AnsweredAt with now.
// Returns an error if validation fails.
func NewAttempt(
	userID, questionID, selectedChoiceID uuid.UUID,
	sessionID *uuid.UUID,
	isCorrect bool,
	timeSpentSeconds int,
	now time.Time,
) (*Attempt, error) {
	attempt := &Attempt{
		ID:                uuid.New(),
		UserID:            userID,
		QuestionID:        questionID,
		PracticeSessionID: sessionID,
		SelectedChoiceID:  selectedChoiceID,
		IsCorrect:         isCorrect,
		TimeSpentSeconds:  timeSpentSeconds,
		AnsweredAt:        now.UTC(),
	}

	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	return attempt, nil
}

// Validate checks if the Attempt has valid data.
// Returns an error if any field fails validation.
func (a *Attempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttemptIDEmpty
	}

	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}

	if a.QuestionID == uuid.Nil {
		return ErrAttemptQuestionIDEmpty
	}

	if a.SelectedChoiceID == uuid.Nil {
		return ErrAttemptChoiceIDEmpty
	}

	if a.TimeSpentSeconds < 0 {
		return ErrAttemptNegativeTime
	}

	return nil
}
