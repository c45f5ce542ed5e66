package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck-api/internal/service/auth"
)

type fakeJWTService struct {
	claims *auth.Claims
	err    error
}

func (f *fakeJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "", nil
}

func (f *fakeJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return f.claims, f.err
}

func (f *fakeJWTService) GenerateRefreshToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "", nil
}

func (f *fakeJWTService) ValidateRefreshToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		jwtClaims  *auth.Claims
		jwtErr     error
		wantStatus int
	}{
		{
			name:       "valid token passes and sets user ID",
			header:     "Bearer good-token",
			jwtClaims:  &auth.Claims{UserID: userID, TokenType: "access"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header is unauthorized",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header is unauthorized",
			header:     "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token is unauthorized",
			header:     "Bearer expired",
			jwtErr:     auth.ErrExpiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token in access slot is unauthorized",
			header:     "Bearer refresh",
			jwtErr:     auth.ErrWrongTokenType,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(&fakeJWTService{claims: tc.jwtClaims, err: tc.jwtErr})

			var gotUserID uuid.UUID
			var gotOK bool
			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, gotOK = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			}))

			r := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				require.True(t, gotOK)
				assert.Equal(t, userID, gotUserID)
			}
		})
	}
}
