package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetup(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "debug", level: "debug"},
		{name: "info", level: "info"},
		{name: "mixed case warn", level: "WARN"},
		{name: "error", level: "error"},
		{name: "empty defaults to info", level: ""},
		{name: "unknown level", level: "verbose", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(Config{Level: tc.level})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns attached logger", func(t *testing.T) {
		t.Parallel()
		log := discardLogger()
		ctx := WithLogger(context.Background(), log)

		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("falls back to default", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("or-default prefers fallback", func(t *testing.T) {
		t.Parallel()
		fallback := discardLogger()

		assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	})
}
