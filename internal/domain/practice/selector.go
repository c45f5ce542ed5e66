package practice

import (
	"time"

	"github.com/google/uuid"
)

// SelectNext picks the next question for ad-hoc practice from an ordered,
// pre-filtered candidate list. The candidate order is established by the
// caller (repository query) and is treated as authoritative here.
//
// Policy: the first candidate with no attempt history wins. If every
// candidate has been attempted, the one with the oldest lastAnsweredAt wins,
// ties broken by candidate order. Returns false when the candidate list is
// empty.
func SelectNext(
	candidateIDs []uuid.UUID,
	history map[uuid.UUID]time.Time,
) (uuid.UUID, bool) {
	if len(candidateIDs) == 0 {
		return uuid.Nil, false
	}

	var oldest uuid.UUID
	var oldestAt time.Time
	found := false

	for _, id := range candidateIDs {
		lastAnsweredAt, attempted := history[id]
		if !attempted {
			return id, true
		}
		if !found || lastAnsweredAt.Before(oldestAt) {
			oldest = id
			oldestAt = lastAnsweredAt
			found = true
		}
	}

	return oldest, true
}

// FirstUnanswered scans a session's fixed question list in order and returns
// the first question that has not been answered yet. Unlike SelectNext it
// never falls back to re-serving an attempted question; a fully answered
// session has no next question. Returns false when every question is
// answered or the list is empty.
func FirstUnanswered(
	questionIDs []uuid.UUID,
	answered map[uuid.UUID]bool,
) (uuid.UUID, bool) {
	for _, id := range questionIDs {
		if !answered[id] {
			return id, true
		}
	}
	return uuid.Nil, false
}
