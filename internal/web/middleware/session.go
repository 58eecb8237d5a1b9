package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/facedeck/facedeck/internal/faceapi"
)

const (
	sessionCookieName = "facedeck_session"
	sessionDuration   = 24 * time.Hour
	cleanupInterval   = 10 * time.Minute
)

// Session is one authenticated browser session. It owns the backend client
// and token pair for that operator, so the client's refresh-and-retry
// machinery works per session.
type Session struct {
	ID        string
	User      *faceapi.User
	Client    *faceapi.Client
	Tokens    *faceapi.StaticTokens
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session itself, or its backend credentials,
// are gone.
func (s *Session) Expired() bool {
	if time.Now().After(s.ExpiresAt) {
		return true
	}
	access, _ := s.Tokens.Tokens()
	return access == ""
}

// SessionManager creates, validates, and expires browser sessions. Session
// IDs travel in an HMAC-signed cookie; the map is the only store, so
// restarting the server logs everyone out.
type SessionManager struct {
	secret   []byte
	sessions map[string]*Session
	mu       sync.RWMutex

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSessionManager creates a session manager. The secret signs session
// cookies; an empty secret falls back to a development default.
func NewSessionManager(secret string) *SessionManager {
	if secret == "" {
		secret = "facedeck-dev-secret-change-in-production"
	}
	sm := &SessionManager{
		secret:   []byte(secret),
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go sm.cleanupLoop()
	return sm
}

// Stop ends the background cleanup goroutine.
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stop)
	})
}

// CreateSession registers a new session for an authenticated operator.
func (sm *SessionManager) CreateSession(user *faceapi.User, client *faceapi.Client, tokens *faceapi.StaticTokens) (*Session, error) {
	idBytes := make([]byte, 32)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, err
	}

	session := &Session{
		ID:        base64.URLEncoding.EncodeToString(idBytes),
		User:      user,
		Client:    client,
		Tokens:    tokens,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(sessionDuration),
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	return session, nil
}

// GetSession retrieves a live session by ID; expired sessions are treated
// as missing.
func (sm *SessionManager) GetSession(sessionID string) *Session {
	sm.mu.RLock()
	session, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()

	if !ok {
		return nil
	}
	if session.Expired() {
		sm.DeleteSession(sessionID)
		return nil
	}
	return session
}

// DeleteSession removes a session.
func (sm *SessionManager) DeleteSession(sessionID string) {
	sm.mu.Lock()
	delete(sm.sessions, sessionID)
	sm.mu.Unlock()
}

// SetSessionCookie writes the signed session cookie.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, session *Session) {
	signature := sm.signData(session.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID + "." + signature,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionDuration.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// GetSessionFromRequest extracts and validates the session referenced by a
// request. The cookie is checked first, then a bearer Authorization header
// for non-browser clients.
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) *Session {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if id, signature, ok := strings.Cut(cookie.Value, "."); ok && sm.verifySignature(id, signature) {
			if session := sm.GetSession(id); session != nil {
				return session
			}
		}
	}

	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		if session := sm.GetSession(strings.TrimPrefix(authHeader, "Bearer ")); session != nil {
			return session
		}
	}

	return nil
}

func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sm.stop:
			return
		case <-ticker.C:
			sm.mu.Lock()
			for id, session := range sm.sessions {
				if session.Expired() {
					delete(sm.sessions, id)
				}
			}
			sm.mu.Unlock()
		}
	}
}

func (sm *SessionManager) signData(data string) string {
	h := hmac.New(sha256.New, sm.secret)
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

func (sm *SessionManager) verifySignature(data, signature string) bool {
	expected := sm.signData(data)
	return hmac.Equal([]byte(signature), []byte(expected))
}
