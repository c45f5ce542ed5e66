package practice

import (
	"fmt"
	"time"
)

// hash32 folds a string into an unsigned 32-bit value using a rolling
// multiply-add hash. It is intentionally non-cryptographic: the only
// requirement is a stable, well-spread seed per identifier pair.
func hash32(s string) uint32 {
	var h uint32
	for _, b := range []byte(s) {
		h = h*31 + uint32(b)
	}
	return h
}

// Seed derives a shuffle seed from a user ID and a timestamp. Different
// users (or different session start times) get different orderings, while
// the same inputs always reproduce the same permutation.
func Seed(userID string, ts time.Time) uint32 {
	return hash32(fmt.Sprintf("%s:%d", userID, ts.UTC().UnixMilli()))
}

// QuestionSeed derives a per-user, per-question seed. It gives each user a
// stable choice ordering for a question across visits without being
// reproducible cross-user.
func QuestionSeed(userID, questionID string) uint32 {
	return hash32(userID + ":" + questionID)
}

// mulberry32 is a small deterministic PRNG. Each generator owns its state;
// there is no package-level RNG.
type mulberry32 struct {
	state uint32
}

func (m *mulberry32) next() uint32 {
	m.state += 0x6D2B79F5
	z := m.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// Shuffle returns a new slice holding a Fisher-Yates permutation of items
// driven by a mulberry32 generator seeded with seed. The input is never
// mutated, the output is always a permutation of the input, and slices of
// length <= 1 come back as-is.
func Shuffle[T any](items []T, seed uint32) []T {
	if len(items) <= 1 {
		return items
	}

	out := make([]T, len(items))
	copy(out, items)

	rng := mulberry32{state: seed}
	for i := len(out) - 1; i > 0; i-- {
		j := int(rng.next() % uint32(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
