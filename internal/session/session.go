// Package session owns the operator's authentication state: the in-memory
// session is the source of truth for rendering, the state file is the
// recovery copy across restarts.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/facedeck/facedeck/internal/faceapi"
)

// Session is the operator's credential and profile state.
type Session struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	User         *faceapi.User `json:"user,omitempty"`
	ExpiresAt    time.Time     `json:"expires_at,omitempty"`
}

// LoggedIn reports whether the session carries an access token.
func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}

// Manager holds the current session and keeps the state file in sync. It
// implements faceapi.TokenSource, so refreshed tokens persist automatically.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	session Session
}

// NewManager creates a manager and restores any persisted session. A
// corrupt or missing state file yields a logged-out manager, not an error.
func NewManager(store Store) *Manager {
	m := &Manager{store: store}
	if s, err := store.Load(); err == nil {
		m.session = s
	}
	return m
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Tokens implements faceapi.TokenSource.
func (m *Manager) Tokens() (string, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken, m.session.RefreshToken
}

// Update implements faceapi.TokenSource: it stores a new token pair,
// derives the expiry from the access token's exp claim, and persists.
func (m *Manager) Update(pair faceapi.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		m.session.RefreshToken = pair.RefreshToken
	}
	m.session.ExpiresAt = TokenExpiry(pair.AccessToken)

	return m.store.Save(m.session)
}

// SetUser merges the fetched profile into the session and persists.
func (m *Manager) SetUser(user *faceapi.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.User = user
	return m.store.Save(m.session)
}

// Clear implements faceapi.TokenSource: it wipes the session in memory and
// on disk. Both copies are cleared even if the store fails.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = Session{}
	return m.store.Clear()
}

// Login authenticates against the backend, persists the token pair, and
// fetches the user profile in a follow-up call.
func (m *Manager) Login(ctx context.Context, client *faceapi.Client, username, password string) (Session, error) {
	pair, err := client.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	if err := m.Update(*pair); err != nil {
		return Session{}, fmt.Errorf("could not persist session: %w", err)
	}

	user, err := client.Me(ctx)
	if err != nil {
		// The login itself succeeded; a missing profile is not fatal.
		return m.Current(), nil
	}
	if err := m.SetUser(user); err != nil {
		return Session{}, fmt.Errorf("could not persist user profile: %w", err)
	}

	return m.Current(), nil
}

// Logout invalidates the session server-side (best effort) and always
// clears local state.
func (m *Manager) Logout(ctx context.Context, client *faceapi.Client) error {
	if m.Current().LoggedIn() {
		_ = client.Logout(ctx)
	}
	return m.Clear()
}

// NearExpiry reports whether the access token expires within leeway. A
// missing or undecodable expiry counts as expired.
func (m *Manager) NearExpiry(leeway time.Duration) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.session.LoggedIn() {
		return false
	}
	if m.session.ExpiresAt.IsZero() {
		return true
	}
	return time.Until(m.session.ExpiresAt) <= leeway
}
