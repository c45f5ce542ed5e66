// Package practice holds the pure functions at the heart of the practice
// engine: grading, deterministic shuffling, next-question selection, stats
// aggregation and entitlement checks. Nothing in this package performs I/O
// or touches shared state; orchestration lives in the service layer.
package practice

import (
	"errors"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// Grading errors. ErrInvalidQuestion signals corrupt reference data and is
// never retried; ErrInvalidChoice is an expected caller mistake.
var (
	// ErrInvalidQuestion is returned when a question violates the answer-key
	// invariant (zero or more than one correct choice).
	ErrInvalidQuestion = errors.New("question has no unique correct choice")

	// ErrInvalidChoice is returned when the selected choice does not belong
	// to the question's choice set.
	ErrInvalidChoice = errors.New("choice does not belong to question")
)

// GradeResult is the outcome of grading a single answer submission.
type GradeResult struct {
	IsCorrect       bool
	CorrectChoiceID uuid.UUID
	CorrectLabel    string
}

// Grade decides whether the selected choice answers the question correctly.
//
// The question must carry exactly one correct choice; anything else is a
// data-integrity violation reported as ErrInvalidQuestion. The selected
// choice must belong to the question's choice set, otherwise ErrInvalidChoice
// is returned. Grade has no side effects.
func Grade(question *domain.Question, selectedChoiceID uuid.UUID) (GradeResult, error) {
	var correct *domain.Choice
	for i := range question.Choices {
		if question.Choices[i].IsCorrect {
			if correct != nil {
				return GradeResult{}, ErrInvalidQuestion
			}
			correct = &question.Choices[i]
		}
	}
	if correct == nil {
		return GradeResult{}, ErrInvalidQuestion
	}

	selected := question.ChoiceByID(selectedChoiceID)
	if selected == nil {
		return GradeResult{}, ErrInvalidChoice
	}

	return GradeResult{
		IsCorrect:       selected.ID == correct.ID,
		CorrectChoiceID: correct.ID,
		CorrectLabel:    correct.Label,
	}, nil
}
