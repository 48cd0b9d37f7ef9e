package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTokenStore is an in-memory TokenStore for tests.
type memoryTokenStore struct {
	token    string
	loadErr  error
	saveErr  error
	clearErr error
}

func (s *memoryTokenStore) Load() (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.token, nil
}

func (s *memoryTokenStore) Save(token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *memoryTokenStore) Clear() error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token = ""
	return nil
}

func testUser() User {
	return User{ID: "u1", Email: "a@b.com", Name: "Ana", Role: "user", Points: 50}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestSessionStore_RestoreWithoutToken(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeJSON(w, http.StatusOK, testUser())
	}))
	defer srv.Close()

	tokens := &memoryTokenStore{}
	sessions := NewSessionStore(New(srv.URL), tokens)

	assert.True(t, sessions.Loading())
	err := sessions.Restore(context.Background())
	require.NoError(t, err)

	assert.False(t, sessions.Loading())
	assert.Nil(t, sessions.User())
	assert.Equal(t, int64(0), requests.Load(), "restore without a token must not touch the network")
}

func TestSessionStore_RestoreWithValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/me", r.URL.Path)
		require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, testUser())
	}))
	defer srv.Close()

	tokens := &memoryTokenStore{token: "tok1"}
	sessions := NewSessionStore(New(srv.URL), tokens)

	err := sessions.Restore(context.Background())
	require.NoError(t, err)

	assert.False(t, sessions.Loading())
	require.NotNil(t, sessions.User())
	assert.Equal(t, "Ana", sessions.User().Name)
	assert.Equal(t, "tok1", sessions.Token())
}

func TestSessionStore_RestoreWithRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	}))
	defer srv.Close()

	tokens := &memoryTokenStore{token: "stale"}
	sessions := NewSessionStore(New(srv.URL), tokens)

	err := sessions.Restore(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	assert.False(t, sessions.Loading())
	assert.Nil(t, sessions.User())
	assert.Empty(t, sessions.Token())
	assert.Empty(t, tokens.token, "rejected token must be removed from storage")
}

func TestSessionStore_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["email"] != "a@b.com" || req["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, TokenResponse{
			AccessToken: "tok1",
			TokenType:   "bearer",
			User:        testUser(),
		})
	}))
	defer srv.Close()

	tokens := &memoryTokenStore{}
	sessions := NewSessionStore(New(srv.URL), tokens)

	user, err := sessions.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "tok1", sessions.Token())
	assert.Equal(t, "tok1", tokens.token, "token must be persisted")
	require.NotNil(t, sessions.User())
	assert.Equal(t, "Ana", sessions.User().Name)
}

func TestSessionStore_LoginFailureKeepsState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
	}))
	defer srv.Close()

	tokens := &memoryTokenStore{}
	sessions := NewSessionStore(New(srv.URL), tokens)

	_, err := sessions.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect email or password", apiErr.Detail)

	assert.Nil(t, sessions.User())
	assert.Empty(t, tokens.token)
}

func TestSessionStore_LogoutClearsEvenOnNetworkError(t *testing.T) {
	// Server closed up front, so the logout POST fails at transport
	// level.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	tokens := &memoryTokenStore{token: "tok1"}
	client := New(srv.URL)
	client.SetToken("tok1")
	sessions := NewSessionStore(client, tokens)
	sessions.token = "tok1"
	sessions.user = &User{ID: "u1", Name: "Ana"}
	sessions.loading = false

	err := sessions.Logout(context.Background())
	require.Error(t, err, "transport failure is reported")

	assert.Nil(t, sessions.User())
	assert.Empty(t, sessions.Token())
	assert.Empty(t, tokens.token, "local logout proceeds regardless")
	assert.Empty(t, client.Token())
}

func TestSessionStore_CompleteGoogleSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/google/session", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["session_id"] != "sess-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Session expired or invalid"})
			return
		}
		writeJSON(w, http.StatusOK, TokenResponse{AccessToken: "tok-g", TokenType: "bearer", User: testUser()})
	}))
	defer srv.Close()

	tokens := &memoryTokenStore{}
	sessions := NewSessionStore(New(srv.URL), tokens)

	user, err := sessions.CompleteGoogleSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "tok-g", tokens.token)
}

func TestSessionStore_HandleAuthError(t *testing.T) {
	tokens := &memoryTokenStore{token: "tok1"}
	client := New("http://unused")
	sessions := NewSessionStore(client, tokens)
	sessions.token = "tok1"
	sessions.user = &User{ID: "u1"}

	cleared := sessions.HandleAuthError(&APIError{Status: http.StatusUnauthorized})
	assert.True(t, cleared)
	assert.Nil(t, sessions.User())
	assert.Empty(t, tokens.token)

	cleared = sessions.HandleAuthError(&APIError{Status: http.StatusInternalServerError})
	assert.False(t, cleared)
}

func TestSessionStore_IsAdmin(t *testing.T) {
	sessions := NewSessionStore(New("http://unused"), &memoryTokenStore{})
	assert.False(t, sessions.IsAdmin())

	sessions.user = &User{Role: "user"}
	assert.False(t, sessions.IsAdmin())

	sessions.user = &User{Role: "admin"}
	assert.True(t, sessions.IsAdmin())
}

func TestFileTokenStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file reads as no token")

	require.NoError(t, store.Save("tok1"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok1", token)

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Clear(), "clearing twice is fine")
}
