package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/service/auth"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

type fakeUserStore struct {
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uuid.UUID]*domain.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

type stubJWTService struct {
	refreshClaims *auth.Claims
	refreshErr    error
}

func (s *stubJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "access-token", nil
}

func (s *stubJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (s *stubJWTService) GenerateRefreshToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "refresh-token", nil
}

func (s *stubJWTService) ValidateRefreshToken(_ context.Context, _ string) (*auth.Claims, error) {
	return s.refreshClaims, s.refreshErr
}

func newAuthTestRouter(users *fakeUserStore, jwt auth.JWTService) http.Handler {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Minimum bcrypt cost keeps the hashing fast under test.
	handler := NewAuthHandler(users, jwt,
		auth.NewBcryptHasher(4), auth.NewBcryptVerifier(), discard)

	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)
	r.Post("/api/auth/login", handler.Login)
	r.Post("/api/auth/refresh", handler.RefreshToken)
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRegister(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	router := newAuthTestRouter(users, &stubJWTService{})

	w := postJSON(t, router, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "correct horse battery",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	assert.NotEqual(t, uuid.Nil, resp.UserID)

	// The stored user carries only the hash.
	stored := users.byEmail["learner@example.com"]
	require.NotNil(t, stored)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "correct horse battery", stored.HashedPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	router := newAuthTestRouter(users, &stubJWTService{})
	req := RegisterRequest{Email: "learner@example.com", Password: "correct horse battery"}

	first := postJSON(t, router, "/api/auth/register", req)
	second := postJSON(t, router, "/api/auth/register", req)

	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "already in use")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(newFakeUserStore(), &stubJWTService{})
	w := postJSON(t, router, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	router := newAuthTestRouter(users, &stubJWTService{})
	register := RegisterRequest{Email: "learner@example.com", Password: "correct horse battery"}
	require.Equal(t, http.StatusCreated,
		postJSON(t, router, "/api/auth/register", register).Code)

	tests := []struct {
		name       string
		req        LoginRequest
		wantStatus int
	}{
		{
			name:       "valid credentials",
			req:        LoginRequest{Email: register.Email, Password: register.Password},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			req:        LoginRequest{Email: register.Email, Password: "wrong password!!"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			req:        LoginRequest{Email: "nobody@example.com", Password: register.Password},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/auth/login", tc.req)
			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusUnauthorized {
				// Unknown email and wrong password are indistinguishable.
				assert.Contains(t, w.Body.String(), "Invalid email or password")
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	user, err := domain.NewUser("learner@example.com", "correct horse battery")
	require.NoError(t, err)
	user.HashedPassword = "hashed"
	user.Password = ""
	require.NoError(t, users.Create(context.Background(), user))

	jwt := &stubJWTService{refreshClaims: &auth.Claims{UserID: user.ID, TokenType: "refresh"}}
	router := newAuthTestRouter(users, jwt)

	w := postJSON(t, router, "/api/auth/refresh", RefreshTokenRequest{RefreshToken: "valid"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.AccessToken)
}

func TestRefreshTokenExpired(t *testing.T) {
	t.Parallel()

	jwt := &stubJWTService{refreshErr: auth.ErrExpiredRefreshToken}
	router := newAuthTestRouter(newFakeUserStore(), jwt)

	w := postJSON(t, router, "/api/auth/refresh", RefreshTokenRequest{RefreshToken: "expired"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
