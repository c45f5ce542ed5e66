package practice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// newQuestion builds a published question with the given correctness flags,
// one choice per flag, labeled A, B, C...
func newQuestion(t *testing.T, correctFlags ...bool) *domain.Question {
	t.Helper()

	q := &domain.Question{
		ID:         uuid.New(),
		Slug:       "test-question",
		StemMD:     "What is the first-line treatment?",
		Difficulty: domain.DifficultyMedium,
		Status:     domain.QuestionStatusPublished,
	}
	for i, correct := range correctFlags {
		q.Choices = append(q.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Label:      string(rune('A' + i)),
			TextMD:     "option",
			IsCorrect:  correct,
			SortOrder:  i,
		})
	}
	return q
}

func TestGrade(t *testing.T) {
	t.Parallel()

	t.Run("correct selection", func(t *testing.T) {
		t.Parallel()
		q := newQuestion(t, false, true, false, false)

		result, err := Grade(q, q.Choices[1].ID)
		require.NoError(t, err)

		assert.True(t, result.IsCorrect)
		assert.Equal(t, q.Choices[1].ID, result.CorrectChoiceID)
		assert.Equal(t, "B", result.CorrectLabel)
	})

	t.Run("incorrect selection still reports the answer key", func(t *testing.T) {
		t.Parallel()
		q := newQuestion(t, false, true, false, false)

		result, err := Grade(q, q.Choices[3].ID)
		require.NoError(t, err)

		assert.False(t, result.IsCorrect)
		assert.Equal(t, q.Choices[1].ID, result.CorrectChoiceID)
		assert.Equal(t, "B", result.CorrectLabel)
	})

	t.Run("every choice of a valid question grades consistently", func(t *testing.T) {
		t.Parallel()
		q := newQuestion(t, true, false, false, false, false)

		for i := range q.Choices {
			result, err := Grade(q, q.Choices[i].ID)
			require.NoError(t, err)
			assert.Equal(t, q.Choices[i].IsCorrect, result.IsCorrect)
		}
	})

	t.Run("foreign choice ID", func(t *testing.T) {
		t.Parallel()
		q := newQuestion(t, true, false)

		_, err := Grade(q, uuid.New())
		assert.ErrorIs(t, err, ErrInvalidChoice)
	})

	t.Run("no correct choice", func(t *testing.T) {
		t.Parallel()
		q := newQuestion(t, false, false, false)

		_, err := Grade(q, q.Choices[0].ID)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})

	t.Run("multiple correct choices", func(t *testing.T) {
		t.Parallel()
		q := newQuestion(t, true, true, false)

		_, err := Grade(q, q.Choices[0].ID)
		assert.ErrorIs(t, err, ErrInvalidQuestion)
	})
}
