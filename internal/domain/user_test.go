package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("learner@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "learner@example.com", user.Email)
	assert.Empty(t, user.HashedPassword)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "correct horse battery", ErrEmptyEmail},
		{"malformed email", "not-an-email", "correct horse battery", ErrInvalidEmail},
		{"short password", "learner@example.com", "tooshort", ErrPasswordTooShort},
		{"long password", "learner@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateHashedOnly(t *testing.T) {
	t.Parallel()

	// A stored user has no plaintext password, only the hash.
	user := &User{ID: uuid.New(), Email: "learner@example.com", HashedPassword: "bcrypt-hash"}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyHashedPassword)
}
