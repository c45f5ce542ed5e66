package postgres

import "github.com/google/uuid"

// uuidStrings converts UUIDs to their string form for array binding; queries
// cast the parameter back with ::uuid[].
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// difficultyStrings converts typed difficulties for text[] binding.
func difficultyStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
