package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/blogapi/internal/crypto"
	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/token"
	"github.com/iudanet/blogapi/pkg/api"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func setupAuthHandler(t *testing.T) (*AuthHandler, *mockUserStorage, *token.Issuer) {
	t.Helper()

	issuer, err := token.NewIssuer(token.DefaultConfig([]byte("test-secret")))
	require.NoError(t, err)

	userStorage := newMockUserStorage()
	handler := NewAuthHandler(setupTestLogger(), userStorage, issuer).
		WithClock(func() time.Time { return testNow }).
		WithPasswordCost(bcrypt.MinCost)

	return handler, userStorage, issuer
}

func addUser(t *testing.T, users *mockUserStorage, username, password string) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, PasswordHash: hash}
	require.NoError(t, users.CreateUser(context.Background(), user))
	return user
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler, userStorage, _ := setupAuthHandler(t)

	body, err := json.Marshal(api.RegisterRequest{Username: "  alice  ", Password: "pass1234"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response api.RegisterResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "alice", response.User.Username)
	assert.NotZero(t, response.User.ID)

	// Verify user was created in storage with a hashed password
	user, err := userStorage.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pass1234", user.PasswordHash)
	assert.NoError(t, crypto.VerifyPassword(user.PasswordHash, "pass1234"))
}

func TestAuthHandler_Register_ResponseHasNoPassword(t *testing.T) {
	handler, _, _ := setupAuthHandler(t)

	w := postJSON(t, handler.Register, "/register", `{"username":"alice","password":"pass1234"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	handler, _, _ := setupAuthHandler(t)

	w := postJSON(t, handler.Register, "/register", `{"username":"alice","password":"pass1234"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, handler.Register, "/register", `{"username":"alice","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username already taken", decodeError(t, w))
}

func TestAuthHandler_Register_Invalid(t *testing.T) {
	handler, _, _ := setupAuthHandler(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "empty body", body: ``, wantErr: "username and password are required"},
		{name: "invalid json", body: `invalid json`, wantErr: "username and password are required"},
		{name: "json array", body: `[1,2]`, wantErr: "username and password are required"},
		{name: "missing password", body: `{"username":"alice"}`, wantErr: "username and password are required"},
		{name: "blank username", body: `{"username":"   ","password":"x"}`, wantErr: "username and password are required"},
		{name: "non string username", body: `{"username":42,"password":"x"}`, wantErr: "username and password are required"},
		{name: "username with spaces", body: `{"username":"al ice","password":"x"}`, wantErr: "may only contain"},
		{
			name:    "username too long",
			body:    `{"username":"` + strings.Repeat("a", 151) + `","password":"x"}`,
			wantErr: "150 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Register, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w), tt.wantErr)
		})
	}
}

func TestAuthHandler_Register_StorageError(t *testing.T) {
	handler, userStorage, _ := setupAuthHandler(t)
	userStorage.createError = errors.New("disk full")

	w := postJSON(t, handler.Register, "/register", `{"username":"alice","password":"pass1234"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w))
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler, userStorage, issuer := setupAuthHandler(t)
	bob := addUser(t, userStorage, "bob", "secretpw")

	w := postJSON(t, handler.Login, "/login", `{"username":"bob","password":"secretpw"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response api.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NotEmpty(t, response.Tokens.Access)
	require.NotEmpty(t, response.Tokens.Refresh)

	access, err := issuer.Codec().Decode(response.Tokens.Access, testNow)
	require.NoError(t, err)
	assert.Equal(t, token.KindAccess, access.Kind)
	assert.Equal(t, bob.ID, access.Subject)
	assert.Equal(t, "bob", access.Username)
	assert.True(t, access.IssuedAt.Equal(testNow))

	refresh, err := issuer.Codec().Decode(response.Tokens.Refresh, testNow)
	require.NoError(t, err)
	assert.Equal(t, token.KindRefresh, refresh.Kind)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt))
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	handler, userStorage, _ := setupAuthHandler(t)
	addUser(t, userStorage, "bob", "secretpw")

	tests := []struct {
		name       string
		body       string
		wantErr    string
		wantStatus int
	}{
		{name: "wrong password", body: `{"username":"bob","password":"nope"}`, wantStatus: http.StatusUnauthorized, wantErr: "Invalid credentials"},
		{name: "unknown user", body: `{"username":"eve","password":"secretpw"}`, wantStatus: http.StatusUnauthorized, wantErr: "Invalid credentials"},
		{name: "username is not trimmed", body: `{"username":" bob ","password":"secretpw"}`, wantStatus: http.StatusUnauthorized, wantErr: "Invalid credentials"},
		{name: "missing password", body: `{"username":"bob"}`, wantStatus: http.StatusBadRequest, wantErr: "username and password are required"},
		{name: "garbage body", body: `<xml/>`, wantStatus: http.StatusBadRequest, wantErr: "username and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Login, "/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w))
		})
	}
}

func TestAuthHandler_Login_StorageError(t *testing.T) {
	handler, userStorage, _ := setupAuthHandler(t)
	userStorage.getError = errors.New("connection reset")

	w := postJSON(t, handler.Login, "/login", `{"username":"bob","password":"secretpw"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w))
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	handler, userStorage, issuer := setupAuthHandler(t)
	bob := addUser(t, userStorage, "bob", "secretpw")

	pair, err := issuer.IssuePair(bob, testNow.Add(-time.Hour))
	require.NoError(t, err)

	for _, field := range []string{"refresh", "token"} {
		t.Run(field, func(t *testing.T) {
			w := postJSON(t, handler.Refresh, "/auth/refresh", `{"`+field+`":"`+pair.Refresh+`"}`)
			require.Equal(t, http.StatusOK, w.Code)

			var response api.RefreshResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

			claims, err := issuer.Codec().Decode(response.Access, testNow)
			require.NoError(t, err)
			assert.Equal(t, token.KindAccess, claims.Kind)
			assert.Equal(t, bob.ID, claims.Subject)
			assert.True(t, claims.IssuedAt.Equal(testNow))
		})
	}
}

func TestAuthHandler_Refresh_Failures(t *testing.T) {
	handler, userStorage, issuer := setupAuthHandler(t)
	bob := addUser(t, userStorage, "bob", "secretpw")
	ghost := &models.User{ID: 999, Username: "ghost"}

	pair, err := issuer.IssuePair(bob, testNow)
	require.NoError(t, err)
	expired, err := issuer.IssuePair(bob, testNow.Add(-token.DefaultRefreshTTL))
	require.NoError(t, err)
	ghostPair, err := issuer.IssuePair(ghost, testNow)
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantErr    string
		wantStatus int
	}{
		{name: "missing token", body: `{}`, wantStatus: http.StatusBadRequest, wantErr: "refresh token is required"},
		{name: "not a token", body: `{"refresh":"not-a-token"}`, wantStatus: http.StatusUnauthorized, wantErr: "Invalid token"},
		{name: "access token", body: `{"refresh":"` + pair.Access + `"}`, wantStatus: http.StatusUnauthorized, wantErr: "Invalid token type"},
		{name: "expired refresh", body: `{"refresh":"` + expired.Refresh + `"}`, wantStatus: http.StatusUnauthorized, wantErr: "Token expired"},
		{name: "deleted user", body: `{"refresh":"` + ghostPair.Refresh + `"}`, wantStatus: http.StatusUnauthorized, wantErr: "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Refresh, "/auth/refresh", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w))
		})
	}
}

func TestAuthHandler_Refresh_StorageError(t *testing.T) {
	handler, userStorage, issuer := setupAuthHandler(t)
	bob := addUser(t, userStorage, "bob", "secretpw")

	pair, err := issuer.IssuePair(bob, testNow)
	require.NoError(t, err)

	userStorage.getError = errors.New("connection reset")

	w := postJSON(t, handler.Refresh, "/auth/refresh", `{"refresh":"`+pair.Refresh+`"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
