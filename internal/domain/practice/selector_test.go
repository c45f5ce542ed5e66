package practice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectNext(t *testing.T) {
	t.Parallel()

	q1 := uuid.New()
	q2 := uuid.New()
	q3 := uuid.New()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		candidates []uuid.UUID
		history    map[uuid.UUID]time.Time
		expected   uuid.UUID
		expectNone bool
	}{
		{
			name:       "first unattempted candidate wins",
			candidates: []uuid.UUID{q1, q2, q3},
			history:    map[uuid.UUID]time.Time{q1: base},
			expected:   q2,
		},
		{
			name:       "all attempted falls back to oldest",
			candidates: []uuid.UUID{q1, q2, q3},
			history: map[uuid.UUID]time.Time{
				q1: base.Add(1 * time.Hour),
				q2: base,
				q3: base.Add(2 * time.Hour),
			},
			expected: q2,
		},
		{
			name:       "oldest tie broken by candidate order",
			candidates: []uuid.UUID{q1, q2, q3},
			history: map[uuid.UUID]time.Time{
				q1: base.Add(time.Hour),
				q2: base,
				q3: base,
			},
			expected: q2,
		},
		{
			name:       "no history returns first candidate",
			candidates: []uuid.UUID{q3, q1, q2},
			history:    map[uuid.UUID]time.Time{},
			expected:   q3,
		},
		{
			name:       "empty candidates",
			candidates: nil,
			history:    map[uuid.UUID]time.Time{q1: base},
			expectNone: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			id, ok := SelectNext(tc.candidates, tc.history)
			if tc.expectNone {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestFirstUnanswered(t *testing.T) {
	t.Parallel()

	q1 := uuid.New()
	q2 := uuid.New()
	q3 := uuid.New()

	t.Run("returns first unanswered in fixed order", func(t *testing.T) {
		t.Parallel()
		id, ok := FirstUnanswered(
			[]uuid.UUID{q1, q2, q3},
			map[uuid.UUID]bool{q1: true},
		)
		require.True(t, ok)
		assert.Equal(t, q2, id)
	})

	t.Run("never re-serves answered questions", func(t *testing.T) {
		t.Parallel()
		_, ok := FirstUnanswered(
			[]uuid.UUID{q1, q2},
			map[uuid.UUID]bool{q1: true, q2: true},
		)
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		_, ok := FirstUnanswered(nil, nil)
		assert.False(t, ok)
	})
}
