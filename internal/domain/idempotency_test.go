package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeyRecordLifecycle(t *testing.T) {
	t.Parallel()

	record := &IdempotencyKeyRecord{
		UserID:    uuid.New(),
		Action:    "submit_answer",
		Key:       "key-1",
		ExpiresAt: time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, record.Validate())

	// Pending: no outcome yet.
	assert.False(t, record.Completed())
	_, err := record.Outcome()
	assert.ErrorIs(t, err, ErrIdempotencyNoOutcome)

	record.StoredResult = json.RawMessage(`{"attempt_id":"abc"}`)
	assert.True(t, record.Completed())
	result, err := record.Outcome()
	require.NoError(t, err)
	assert.JSONEq(t, `{"attempt_id":"abc"}`, string(result))

	record.StoredResult = nil
	record.StoredError = "session already ended"
	assert.True(t, record.Completed())
	_, err = record.Outcome()
	assert.EqualError(t, err, "session already ended")
}

func TestIdempotencyKeyRecordExpired(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	record := &IdempotencyKeyRecord{ExpiresAt: expiresAt}

	assert.False(t, record.Expired(expiresAt.Add(-time.Second)))
	assert.True(t, record.Expired(expiresAt))
	assert.True(t, record.Expired(expiresAt.Add(time.Second)))
}

func TestIdempotencyKeyRecordValidate(t *testing.T) {
	t.Parallel()

	valid := IdempotencyKeyRecord{UserID: uuid.New(), Action: "end_session", Key: "key-1"}

	noAction := valid
	noAction.Action = ""
	assert.ErrorIs(t, noAction.Validate(), ErrIdempotencyActionEmpty)

	noKey := valid
	noKey.Key = ""
	assert.ErrorIs(t, noKey.Validate(), ErrIdempotencyKeyEmpty)
}
