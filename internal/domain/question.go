package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Question-specific validation errors
var (
	// ErrQuestionIDEmpty is returned when a question ID is empty or nil.
	ErrQuestionIDEmpty = errors.New("question ID cannot be empty")

	// ErrQuestionSlugEmpty is returned when a question slug is empty.
	ErrQuestionSlugEmpty = errors.New("question slug cannot be empty")

	// ErrQuestionStemEmpty is returned when a question stem is empty.
	ErrQuestionStemEmpty = errors.New("question stem cannot be empty")

	// ErrQuestionNoChoices is returned when a question has no choices.
	ErrQuestionNoChoices = errors.New("question must have at least two choices")

	// ErrChoiceQuestionMismatch is returned when a choice does not belong to
	// the question it is attached to.
	ErrChoiceQuestionMismatch = errors.New("choice does not belong to question")
)

// Difficulty classifies how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Validate checks that the difficulty is one of the known values.
func (d Difficulty) Validate() error {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return nil
	default:
		return ErrInvalidDifficulty
	}
}

// QuestionStatus represents the publication state of a question.
// Only published questions are selectable or visible to learners.
type QuestionStatus string

const (
	QuestionStatusDraft     QuestionStatus = "draft"
	QuestionStatusPublished QuestionStatus = "published"
	QuestionStatusArchived  QuestionStatus = "archived"
)

// Validate checks that the status is one of the known values.
func (s QuestionStatus) Validate() error {
	switch s {
	case QuestionStatusDraft, QuestionStatusPublished, QuestionStatusArchived:
		return nil
	default:
		return ErrInvalidQuestionStatus
	}
}

// Choice represents one of the answer options of a question.
// Labels run A through E and SortOrder fixes the authored ordering;
// per-user presentation order is derived separately with a seeded shuffle.
type Choice struct {
	ID            uuid.UUID `json:"id"`
	QuestionID    uuid.UUID `json:"question_id"`
	Label         string    `json:"label"`
	TextMD        string    `json:"text_md"`
	IsCorrect     bool      `json:"is_correct"`
	ExplanationMD string    `json:"explanation_md,omitempty"`
	SortOrder     int       `json:"sort_order"`
}

// Question represents a board-exam practice question together with its
// ordered choice set and tag slugs. A question fetched for a session is
// treated as immutable: later edits to the question bank never alter an
// in-progress session's view of it.
type Question struct {
	ID            uuid.UUID      `json:"id"`
	Slug          string         `json:"slug"`
	StemMD        string         `json:"stem_md"`
	ExplanationMD string         `json:"explanation_md,omitempty"`
	Difficulty    Difficulty     `json:"difficulty"`
	Status        QuestionStatus `json:"status"`
	Choices       []Choice       `json:"choices"`
	Tags          []string       `json:"tags,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Validate checks if the Question has valid data.
// Returns an error if any field fails validation.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}

	if q.Slug == "" {
		return ErrQuestionSlugEmpty
	}

	if q.StemMD == "" {
		return ErrQuestionStemEmpty
	}

	if err := q.Difficulty.Validate(); err != nil {
		return err
	}

	if err := q.Status.Validate(); err != nil {
		return err
	}

	if len(q.Choices) < 2 {
		return ErrQuestionNoChoices
	}

	for i := range q.Choices {
		if q.Choices[i].QuestionID != q.ID {
			return ErrChoiceQuestionMismatch
		}
	}

	return nil
}

// IsPublished reports whether the question is visible to learners.
func (q *Question) IsPublished() bool {
	return q.Status == QuestionStatusPublished
}

// ChoiceByID returns the choice with the given ID, or nil if the question
// has no such choice.
func (q *Question) ChoiceByID(id uuid.UUID) *Choice {
	for i := range q.Choices {
		if q.Choices[i].ID == id {
			return &q.Choices[i]
		}
	}
	return nil
}
