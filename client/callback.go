package client

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
)

// sessionIDPattern extracts the one-time session token from the URL
// fragment the server redirects to. The marker is terminated by '&'
// or end of string.
var sessionIDPattern = regexp.MustCompile(`session_id=([^&]+)`)

// ErrNoSessionID is returned when the redirect fragment carries no
// session marker.
var ErrNoSessionID = errors.New("no session_id in fragment")

// ParseSessionID extracts the session token from a URL fragment,
// e.g. "session_id=abc&foo=1" yields "abc".
func ParseSessionID(fragment string) (string, bool) {
	m := sessionIDPattern.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Navigator is how the callback handler moves the UI around. The
// concrete implementation belongs to the embedding application.
type Navigator interface {
	// ReplaceURL swaps the visible URL without adding a history
	// entry, so the back button cannot reprocess the fragment.
	ReplaceURL(url string)
	// NavigateHome shows the authenticated home, carrying the fresh
	// user so the next screen renders without a second profile fetch.
	NavigateHome(user *User)
	// NavigateLogin shows the login screen with an optional message.
	NavigateLogin(message string)
}

// CallbackHandler completes the Google OAuth redirect exactly once.
// Runtimes with double-invocation semantics may call Handle twice;
// the latch makes the second call a no-op.
type CallbackHandler struct {
	sessions *SessionStore
	nav      Navigator
	handled  atomic.Bool
}

// NewCallbackHandler creates a one-shot callback handler.
func NewCallbackHandler(sessions *SessionStore, nav Navigator) *CallbackHandler {
	return &CallbackHandler{sessions: sessions, nav: nav}
}

// Handle processes the redirect fragment. The latch is taken before
// the first network call so a concurrent second invocation cannot
// race past it.
func (h *CallbackHandler) Handle(ctx context.Context, fragment string) error {
	if !h.handled.CompareAndSwap(false, true) {
		return nil
	}

	sessionID, ok := ParseSessionID(fragment)
	if !ok {
		h.nav.NavigateLogin("")
		return ErrNoSessionID
	}

	user, err := h.sessions.CompleteGoogleSession(ctx, sessionID)
	if err != nil {
		h.nav.NavigateLogin("Google sign-in failed")
		return err
	}

	h.nav.ReplaceURL("/")
	h.nav.NavigateHome(user)
	return nil
}
