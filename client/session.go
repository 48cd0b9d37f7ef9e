package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// restoreTimeout bounds the profile fetch on startup so a hung
// network never leaves the session stuck in loading.
const restoreTimeout = 10 * time.Second

// tokenFileName is the single fixed key under which the token is
// persisted.
const tokenFileName = "token"

// TokenStore persists the bearer token across runs.
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file, created with mode
// 0600.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore stores the token under dir. The directory is
// created on first save.
func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{path: filepath.Join(dir, tokenFileName)}
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SessionStore is the single source of truth for who is signed in.
// Token persistence and in-memory state always change together under
// one mutex, so storage and memory never disagree.
type SessionStore struct {
	client *Client
	tokens TokenStore

	mu      sync.Mutex
	token   string
	user    *User
	loading bool
}

// NewSessionStore wires a session store over a Client and a token
// store. The store starts logged out with loading=true until Restore
// runs.
func NewSessionStore(client *Client, tokens TokenStore) *SessionStore {
	return &SessionStore{
		client:  client,
		tokens:  tokens,
		loading: true,
	}
}

// Restore loads a persisted token on startup. Without one it resolves
// immediately with no network call. With one it fetches the profile
// under a bounded timeout; any failure clears storage and memory.
// Restore always terminates with loading=false.
func (s *SessionStore) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	token, err := s.tokens.Load()
	if err != nil {
		s.clearLocked()
		return err
	}
	if token == "" {
		return nil
	}

	s.token = token
	s.client.SetToken(token)

	fetchCtx, cancel := context.WithTimeout(ctx, restoreTimeout)
	defer cancel()

	user, err := s.client.Me(fetchCtx)
	if err != nil {
		s.clearLocked()
		return err
	}
	s.user = user
	return nil
}

// Login exchanges credentials for a session. On failure no state
// changes.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*User, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.establish(resp)
	return &resp.User, nil
}

// Register creates an account and signs in.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) (*User, error) {
	resp, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	s.establish(resp)
	return &resp.User, nil
}

// GoogleLoginURL returns the navigation target that starts the Google
// flow. No local state changes.
func (s *SessionStore) GoogleLoginURL() string {
	return s.client.BaseURL() + "/api/auth/google"
}

// CompleteGoogleSession exchanges a one-time session token from the
// OAuth redirect for a session, exactly like Login.
func (s *SessionStore) CompleteGoogleSession(ctx context.Context, sessionID string) (*User, error) {
	resp, err := s.client.ExchangeGoogleSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.establish(resp)
	return &resp.User, nil
}

// Logout notifies the server best-effort, then unconditionally clears
// local state. The returned error is informational only; the local
// logout always happened.
func (s *SessionStore) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	return err
}

// HandleAuthError clears the session when err is a 401. Every
// authenticated call site funnels its error through here so stale
// sessions are cleared in exactly one place. It reports whether the
// session was cleared.
func (s *SessionStore) HandleAuthError(err error) bool {
	if !IsUnauthorized(err) {
		return false
	}
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	return true
}

// User returns the signed-in profile, or nil when logged out.
func (s *SessionStore) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the current bearer token, "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Loading reports whether Restore has not yet resolved.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsAdmin reports whether the signed-in user has the admin role.
func (s *SessionStore) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == "admin"
}

// establish persists the token and updates memory as one atomic pair.
func (s *SessionStore) establish(resp *TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Persist first; a save failure still leaves a working in-memory
	// session for this run.
	_ = s.tokens.Save(resp.AccessToken)
	s.token = resp.AccessToken
	s.user = &resp.User
	s.client.SetToken(resp.AccessToken)
}

// clearLocked wipes storage and memory together. Callers hold s.mu.
func (s *SessionStore) clearLocked() {
	_ = s.tokens.Clear()
	s.token = ""
	s.user = nil
	s.client.SetToken("")
}
