package practice

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDeterminism(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	assert.Equal(t, Seed("user-a", ts), Seed("user-a", ts))
	assert.NotEqual(t, Seed("user-a", ts), Seed("user-b", ts))
	assert.NotEqual(t, Seed("user-a", ts), Seed("user-a", ts.Add(time.Second)))

	// Timestamps are folded in UTC, so equal instants in different zones
	// produce the same seed.
	est := ts.In(time.FixedZone("EST", -5*3600))
	assert.Equal(t, Seed("user-a", ts), Seed("user-a", est))
}

func TestQuestionSeedDeterminism(t *testing.T) {
	t.Parallel()

	assert.Equal(t, QuestionSeed("u1", "q1"), QuestionSeed("u1", "q1"))
	assert.NotEqual(t, QuestionSeed("u1", "q1"), QuestionSeed("u2", "q1"))
	assert.NotEqual(t, QuestionSeed("u1", "q1"), QuestionSeed("u1", "q2"))
}

func TestShuffle(t *testing.T) {
	t.Parallel()

	t.Run("same seed gives identical permutation", func(t *testing.T) {
		t.Parallel()
		items := []string{"A", "B", "C", "D", "E"}

		first := Shuffle(items, 42)
		second := Shuffle(items, 42)

		assert.Equal(t, first, second)
	})

	t.Run("output is a permutation of the input", func(t *testing.T) {
		t.Parallel()
		items := []int{1, 2, 3, 4, 5, 6, 7, 8}

		out := Shuffle(items, 12345)
		require.Len(t, out, len(items))

		sorted := append([]int(nil), out...)
		sort.Ints(sorted)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, sorted)
	})

	t.Run("different seeds usually differ", func(t *testing.T) {
		t.Parallel()
		items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

		// With 10 elements, at least one of a handful of seeds must deviate
		// from any fixed permutation.
		differing := 0
		base := Shuffle(items, 1)
		for seed := uint32(2); seed < 10; seed++ {
			if !assert.ObjectsAreEqual(base, Shuffle(items, seed)) {
				differing++
			}
		}
		assert.Greater(t, differing, 0)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		t.Parallel()
		items := []int{1, 2, 3, 4, 5}

		_ = Shuffle(items, 99)

		assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
	})

	t.Run("short slices are returned unchanged", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Shuffle([]int{}, 7))
		assert.Equal(t, []int{1}, Shuffle([]int{1}, 7))
	})
}
