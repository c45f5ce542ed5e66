package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() *Question {
	id := uuid.New()
	return &Question{
		ID:         id,
		Slug:       "mi-ecg-changes",
		StemMD:     "Which ECG change is most specific for...",
		Difficulty: DifficultyMedium,
		Status:     QuestionStatusPublished,
		Choices: []Choice{
			{ID: uuid.New(), QuestionID: id, Label: "A", TextMD: "ST elevation", IsCorrect: true, SortOrder: 0},
			{ID: uuid.New(), QuestionID: id, Label: "B", TextMD: "Sinus tachycardia", SortOrder: 1},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestQuestionValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validQuestion().Validate())

	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr error
	}{
		{"empty slug", func(q *Question) { q.Slug = "" }, ErrQuestionSlugEmpty},
		{"empty stem", func(q *Question) { q.StemMD = "" }, ErrQuestionStemEmpty},
		{"unknown difficulty", func(q *Question) { q.Difficulty = "brutal" }, ErrInvalidDifficulty},
		{"unknown status", func(q *Question) { q.Status = "pending" }, ErrInvalidQuestionStatus},
		{"single choice", func(q *Question) { q.Choices = q.Choices[:1] }, ErrQuestionNoChoices},
		{
			"foreign choice",
			func(q *Question) { q.Choices[1].QuestionID = uuid.New() },
			ErrChoiceQuestionMismatch,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q := validQuestion()
			tc.mutate(q)
			assert.ErrorIs(t, q.Validate(), tc.wantErr)
		})
	}
}

func TestChoiceByID(t *testing.T) {
	t.Parallel()

	q := validQuestion()
	found := q.ChoiceByID(q.Choices[1].ID)
	require.NotNil(t, found)
	assert.Equal(t, "B", found.Label)

	assert.Nil(t, q.ChoiceByID(uuid.New()))
}

func TestIsPublished(t *testing.T) {
	t.Parallel()

	q := validQuestion()
	assert.True(t, q.IsPublished())

	q.Status = QuestionStatusArchived
	assert.False(t, q.IsPublished())
}
