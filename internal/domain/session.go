package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionUserIDEmpty is returned when a session's user ID is empty or nil.
	ErrSessionUserIDEmpty = errors.New("session user ID cannot be empty")

	// ErrSessionNoQuestions is returned when a session is created with an
	// empty question list.
	ErrSessionNoQuestions = errors.New("session must have at least one question")

	// ErrSessionAlreadyEnded is returned when a one-way end transition is
	// attempted a second time.
	ErrSessionAlreadyEnded = errors.New("session already ended")

	// ErrSessionNotInProgress is returned when a transition requires an
	// in-progress session.
	ErrSessionNotInProgress = errors.New("session is not in progress")

	// ErrQuestionNotInSession is returned when an operation targets a question
	// outside the session's fixed question list.
	ErrQuestionNotInSession = errors.New("question is not part of session")
)

// SessionMode distinguishes tutor sessions, which reveal correctness and
// explanations immediately, from exam sessions, which withhold them until
// the session is reviewed and finalized.
type SessionMode string

const (
	SessionModeTutor SessionMode = "tutor"
	SessionModeExam  SessionMode = "exam"
)

// Validate checks that the mode is one of the known values.
func (m SessionMode) Validate() error {
	switch m {
	case SessionModeTutor, SessionModeExam:
		return nil
	default:
		return ErrInvalidSessionMode
	}
}

// SessionStatus is the lifecycle state of a practice session.
// Transitions are one-way: InProgress -> Ended for tutor sessions, and
// InProgress -> AwaitingReview -> Ended for exam sessions.
type SessionStatus string

const (
	SessionStatusInProgress     SessionStatus = "in_progress"
	SessionStatusAwaitingReview SessionStatus = "awaiting_review"
	SessionStatusEnded          SessionStatus = "ended"
)

// QuestionState tracks the per-question progress inside a session: the most
// recent answer and the exam-only mark-for-review flag. Latest* fields are
// nil until the question has been answered at least once.
type QuestionState struct {
	QuestionID             uuid.UUID  `json:"question_id"`
	MarkedForReview        bool       `json:"marked_for_review"`
	LatestSelectedChoiceID *uuid.UUID `json:"latest_selected_choice_id,omitempty"`
	LatestIsCorrect        *bool      `json:"latest_is_correct,omitempty"`
	LatestAnsweredAt       *time.Time `json:"latest_answered_at,omitempty"`
}

// Answered reports whether the question has been answered at least once.
func (qs *QuestionState) Answered() bool {
	return qs.LatestSelectedChoiceID != nil
}

// PracticeSession is a fixed-list practice run. The question list is frozen
// at creation and never changes for the session's lifetime, regardless of
// later edits to the question bank. A session is owned exclusively by its
// user and is ended logically by setting EndedAt, never deleted.
type PracticeSession struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Mode              SessionMode     `json:"mode"`
	Status            SessionStatus   `json:"status"`
	QuestionIDs       []uuid.UUID     `json:"question_ids"`
	QuestionStates    []QuestionState `json:"question_states"`
	TagFilters        []string        `json:"tag_filters,omitempty"`
	DifficultyFilters []Difficulty    `json:"difficulty_filters,omitempty"`
	StartedAt         time.Time       `json:"started_at"`
	EndedAt           *time.Time      `json:"ended_at,omitempty"`
}

// NewPracticeSession creates a new in-progress session with the given fixed
// question order. It generates a new UUID for the session ID and one empty
// QuestionState per question. Returns an error if validation fails.
func NewPracticeSession(
	userID uuid.UUID,
	mode SessionMode,
	questionIDs []uuid.UUID,
	tagFilters []string,
	difficultyFilters []Difficulty,
	now time.Time,
) (*PracticeSession, error) {
	states := make([]QuestionState, len(questionIDs))
	for i, qid := range questionIDs {
		states[i] = QuestionState{QuestionID: qid}
	}

	session := &PracticeSession{
		ID:                uuid.New(),
		UserID:            userID,
		Mode:              mode,
		Status:            SessionStatusInProgress,
		QuestionIDs:       questionIDs,
		QuestionStates:    states,
		TagFilters:        tagFilters,
		DifficultyFilters: difficultyFilters,
		StartedAt:         now.UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the PracticeSession has valid data.
// Returns an error if any field fails validation.
func (s *PracticeSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if err := s.Mode.Validate(); err != nil {
		return err
	}

	if len(s.QuestionIDs) == 0 {
		return ErrSessionNoQuestions
	}

	return nil
}

// Ended reports whether the session has reached its terminal state.
func (s *PracticeSession) Ended() bool {
	return s.EndedAt != nil
}

// StateFor returns the QuestionState for the given question, or nil if the
// question is not part of the session's fixed list.
func (s *PracticeSession) StateFor(questionID uuid.UUID) *QuestionState {
	for i := range s.QuestionStates {
		if s.QuestionStates[i].QuestionID == questionID {
			return &s.QuestionStates[i]
		}
	}
	return nil
}

// RecordAnswer updates the per-question state with the latest submission.
// Returns ErrQuestionNotInSession if the question is not in the fixed list.
func (s *PracticeSession) RecordAnswer(
	questionID, selectedChoiceID uuid.UUID,
	isCorrect bool,
	answeredAt time.Time,
) error {
	state := s.StateFor(questionID)
	if state == nil {
		return ErrQuestionNotInSession
	}

	at := answeredAt.UTC()
	state.LatestSelectedChoiceID = &selectedChoiceID
	state.LatestIsCorrect = &isCorrect
	state.LatestAnsweredAt = &at
	return nil
}
