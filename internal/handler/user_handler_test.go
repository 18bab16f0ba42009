package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"stockfolio/backend/internal/model"
)

func registerForm(t *testing.T, e *testEnv, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v4/user/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	e.h.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	fields := map[string]string{
		"name":     "Alice",
		"username": "alice",
		"email":    "Alice@Example.com",
		"pan":      "PAN-1",
		"password": "secret123",
		"role":     "user",
	}

	w := registerForm(t, e, fields)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	require.True(t, env.Success)
	require.Equal(t, "user registration done", env.Message)

	var user model.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email, "email is stored lowercased")
	require.Equal(t, model.RoleUser, user.Role)
	require.Zero(t, user.WalletMoney)

	// The hash must never appear in the response.
	require.NotContains(t, w.Body.String(), "password_hash")

	// Duplicate unique fields are rejected.
	w = registerForm(t, e, fields)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "user already exists", decodeEnvelope(t, w).Message)
}

func TestRegister_MissingFields(t *testing.T) {
	e := newTestEnv(t)

	w := registerForm(t, e, map[string]string{"name": "Bob"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "all fields are required", decodeEnvelope(t, w).Message)
}

func TestLoginLogoutFlow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	user := e.register(t, "carol", model.RoleUser)

	w := e.do(t, http.MethodPost, "/api/v4/user/login", "",
		map[string]any{"email": "carol@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	names := make(map[string]string)
	for _, c := range cookies {
		names[c.Name] = c.Value
		require.True(t, c.HttpOnly)
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")

	var payload struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.AccessToken)

	// Login persisted the refresh token on the user row.
	stored, err := e.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, payload.RefreshToken, stored.RefreshToken)

	// Access token from login works against guarded routes.
	w = e.do(t, http.MethodGet, "/api/v4/user/GetCurrentUser", payload.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Logout clears the stored token and expires the cookies.
	w = e.do(t, http.MethodPost, "/api/v4/user/logout", payload.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err = e.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.RefreshToken)

	for _, c := range w.Result().Cookies() {
		require.Negative(t, c.MaxAge)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEnv(t)

	e.register(t, "dave", model.RoleUser)

	w := e.do(t, http.MethodPost, "/api/v4/user/login", "",
		map[string]any{"email": "dave@example.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/api/v4/user/login", "",
		map[string]any{"email": "nobody@example.com", "password": "secret123"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	user := e.register(t, "erin", model.RoleUser)

	_, pair, err := e.userSvc.Login(ctx, "erin@example.com", "secret123")
	require.NoError(t, err)

	w := e.do(t, http.MethodPost, "/api/v4/user/refresh-token", "",
		map[string]any{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &payload))

	// The pair rotated: the stored token is the new one.
	stored, err := e.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, payload.RefreshToken, stored.RefreshToken)

	// Logout revokes; the old token no longer refreshes.
	require.NoError(t, e.userSvc.Logout(ctx, user.ID))
	w = e.do(t, http.MethodPost, "/api/v4/user/refresh-token", "",
		map[string]any{"refreshToken": payload.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddMoney(t *testing.T) {
	e := newTestEnv(t)

	user := e.register(t, "frank", model.RoleUser)
	access := e.bearer(t, user)

	w := e.do(t, http.MethodPost, "/api/v4/user/addMoney", access, map[string]any{"amount": 1000})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1000.0, e.walletBalance(t, user.ID))

	for _, amount := range []int{0, -50} {
		w = e.do(t, http.MethodPost, "/api/v4/user/addMoney", access, map[string]any{"amount": amount})
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
	require.Equal(t, 1000.0, e.walletBalance(t, user.ID))
}
