// Package session orchestrates the practice session lifecycle: starting a
// session from the question bank, submitting answers, exam review and the
// one-way end transition. Grading, shuffling and selection are pure functions
// in internal/domain/practice; this package wires them to storage and
// enforces entitlement on every operation.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// Common error types for the session service
var (
	// ErrNoQuestionsAvailable indicates that no published questions match the
	// requested filters, so a session cannot be started.
	ErrNoQuestionsAvailable = errors.New("no questions available for the requested filters")

	// ErrNoQuestionsRemaining indicates that every question in the session
	// has been answered at least once.
	ErrNoQuestionsRemaining = errors.New("no unanswered questions remaining")

	// ErrSessionNotFound indicates that the session does not exist or is not
	// owned by the requesting user.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionEnded indicates that the session has already reached its
	// terminal state and cannot accept further mutations.
	ErrSessionEnded = errors.New("session already ended")

	// ErrQuestionNotInSession indicates that the question is not part of the
	// session's fixed question list.
	ErrQuestionNotInSession = errors.New("question is not part of session")

	// ErrQuestionNotFound indicates that a question referenced by the request
	// no longer exists in published form.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrReviewNotAvailable indicates that the review step was requested for
	// a session mode that does not have one.
	ErrReviewNotAvailable = errors.New("review is only available for exam sessions")
)

// StartRequest holds the parameters for starting a new practice session.
// A zero QuestionCount falls back to the configured default; requests above
// the configured maximum are clamped.
type StartRequest struct {
	Mode              domain.SessionMode  `json:"mode"`
	QuestionCount     int                 `json:"question_count"`
	TagFilters        []string            `json:"tag_filters"`
	DifficultyFilters []domain.Difficulty `json:"difficulty_filters"`
}

// ChoiceView is a choice as presented to the learner: no correctness flag,
// no explanation. The slice order in QuestionView is the per-user shuffled
// presentation order, not the authored order.
type ChoiceView struct {
	ID     uuid.UUID `json:"id"`
	Label  string    `json:"label"`
	TextMD string    `json:"text_md"`
}

// Reveal carries the grading outcome and explanation for a question, and is
// only attached to responses once correctness may be shown: immediately in
// tutor mode, after the session ends in exam mode.
type Reveal struct {
	// IsCorrect is nil on question views of questions that were never
	// answered; it is always set on answer submissions.
	IsCorrect       *bool     `json:"is_correct,omitempty"`
	CorrectChoiceID uuid.UUID `json:"correct_choice_id"`
	CorrectLabel    string    `json:"correct_label"`
	ExplanationMD   string    `json:"explanation_md,omitempty"`
}

// QuestionView is a question rendered for one user within one session.
type QuestionView struct {
	QuestionID       uuid.UUID         `json:"question_id"`
	Slug             string            `json:"slug"`
	StemMD           string            `json:"stem_md"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	Choices          []ChoiceView      `json:"choices"`
	Position         int               `json:"position"`
	Total            int               `json:"total"`
	Answered         bool              `json:"answered"`
	MarkedForReview  bool              `json:"marked_for_review"`
	SelectedChoiceID *uuid.UUID        `json:"selected_choice_id,omitempty"`
	Reveal           *Reveal           `json:"reveal,omitempty"`
}

// StartResult is the outcome of starting a session.
type StartResult struct {
	Session       *domain.PracticeSession `json:"session"`
	FirstQuestion *QuestionView           `json:"first_question"`
}

// AnswerRequest holds one answer submission.
type AnswerRequest struct {
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedChoiceID uuid.UUID `json:"selected_choice_id"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
}

// AnswerResult is the outcome of an answer submission. Reveal is nil while
// the session mode withholds correctness.
type AnswerResult struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Reveal    *Reveal   `json:"reveal,omitempty"`
}

// MarkResult reports the mark-for-review flag after a toggle.
type MarkResult struct {
	QuestionID      uuid.UUID `json:"question_id"`
	MarkedForReview bool      `json:"marked_for_review"`
}

// ReviewEntry is the per-question line of a review summary. IsCorrect stays
// nil until correctness may be revealed, and for questions never answered.
type ReviewEntry struct {
	QuestionID      uuid.UUID `json:"question_id"`
	Position        int       `json:"position"`
	Answered        bool      `json:"answered"`
	MarkedForReview bool      `json:"marked_for_review"`
	IsCorrect       *bool     `json:"is_correct,omitempty"`
}

// ReviewSummary is the roll-up view of a session used by the exam review
// screen and the end-of-session report. CorrectCount is nil while
// correctness is withheld.
type ReviewSummary struct {
	SessionID      uuid.UUID            `json:"session_id"`
	Mode           domain.SessionMode   `json:"mode"`
	Status         domain.SessionStatus `json:"status"`
	TotalQuestions int                  `json:"total_questions"`
	AnsweredCount  int                  `json:"answered_count"`
	MarkedCount    int                  `json:"marked_count"`
	CorrectCount   *int                 `json:"correct_count,omitempty"`
	Entries        []ReviewEntry        `json:"entries"`
	StartedAt      time.Time            `json:"started_at"`
	EndedAt        *time.Time           `json:"ended_at,omitempty"`
}

// Service drives practice sessions. Every method checks entitlement against
// the user's current subscription before touching session state, and every
// session read is scoped to the owning user.
type Service interface {
	// Start creates a new session from the published question bank. The
	// candidate pool is filtered by the request, shuffled deterministically
	// per user and start time, and truncated to the requested count.
	//
	// Returns ErrNoQuestionsAvailable when no published question matches the
	// filters, and validation errors for an unknown mode or difficulty.
	Start(ctx context.Context, userID uuid.UUID, req StartRequest) (*StartResult, error)

	// GetQuestion renders one question of the session for the user, with
	// choices in the user's stable shuffled order. The reveal block is
	// attached once the session mode allows it.
	//
	// Returns ErrSessionNotFound or ErrQuestionNotInSession as appropriate.
	GetQuestion(
		ctx context.Context,
		userID, sessionID, questionID uuid.UUID,
	) (*QuestionView, error)

	// NextQuestion returns the first question in session order that has not
	// been answered yet.
	//
	// Returns ErrNoQuestionsRemaining when every question has been answered,
	// and ErrSessionEnded when the session is already over.
	NextQuestion(ctx context.Context, userID, sessionID uuid.UUID) (*QuestionView, error)

	// SubmitAnswer grades a submission, appends an attempt and updates the
	// session's per-question state, all within a single transaction. In tutor
	// mode the result carries the grading outcome and explanation; in exam
	// mode those are withheld until the session ends.
	//
	// Returns ErrSessionEnded for an ended session, ErrQuestionNotInSession
	// for a question outside the fixed list, practice.ErrInvalidChoice for a
	// choice that does not belong to the question, and practice.ErrInvalidQuestion
	// when the stored question violates the answer-key invariant.
	SubmitAnswer(
		ctx context.Context,
		userID, sessionID uuid.UUID,
		req AnswerRequest,
	) (*AnswerResult, error)

	// ToggleMarkForReview flips the exam-only mark flag on a question. In
	// tutor mode the call is a no-op that reports the current flag.
	ToggleMarkForReview(
		ctx context.Context,
		userID, sessionID, questionID uuid.UUID,
	) (*MarkResult, error)

	// EnterReview moves an in-progress exam session to the review step and
	// returns the summary with correctness still withheld. Calling it again
	// while already in review is a no-op.
	//
	// Returns ErrReviewNotAvailable for tutor sessions and ErrSessionEnded
	// for ended ones.
	EnterReview(ctx context.Context, userID, sessionID uuid.UUID) (*ReviewSummary, error)

	// End finalizes the session. The transition is one-way and atomic: of two
	// concurrent End calls exactly one succeeds and the other observes
	// ErrSessionEnded. The returned summary always reveals correctness.
	End(ctx context.Context, userID, sessionID uuid.UUID) (*ReviewSummary, error)

	// GetReview returns the session summary, revealing correctness only when
	// the session mode allows it in the session's current state.
	GetReview(ctx context.Context, userID, sessionID uuid.UUID) (*ReviewSummary, error)
}
