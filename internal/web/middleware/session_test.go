package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/facedeck/facedeck/internal/faceapi"
)

func newTestSession(t *testing.T, sm *SessionManager) *Session {
	t.Helper()
	tokens := &faceapi.StaticTokens{Access: "access", Refresh: "refresh"}
	client, err := faceapi.NewClient("http://localhost:1", tokens)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session, err := sm.CreateSession(&faceapi.User{ID: "u-1", Username: "operator"}, client, tokens)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return session
}

func TestSessionCookie_RoundTrip(t *testing.T) {
	sm := NewSessionManager("test-secret")
	defer sm.Stop()
	session := newTestSession(t, sm)

	recorder := httptest.NewRecorder()
	sm.SetSessionCookie(recorder, session)

	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	got := sm.GetSessionFromRequest(req)
	if got == nil || got.ID != session.ID {
		t.Errorf("expected session restored from cookie")
	}
}

func TestSessionCookie_TamperedSignatureRejected(t *testing.T) {
	sm := NewSessionManager("test-secret")
	defer sm.Stop()
	session := newTestSession(t, sm)

	recorder := httptest.NewRecorder()
	sm.SetSessionCookie(recorder, session)
	cookie := recorder.Result().Cookies()[0]

	id, _, _ := strings.Cut(cookie.Value, ".")
	cookie.Value = id + ".forged-signature"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	if sm.GetSessionFromRequest(req) != nil {
		t.Error("expected tampered cookie rejected")
	}
}

func TestSession_BearerHeaderFallback(t *testing.T) {
	sm := NewSessionManager("test-secret")
	defer sm.Stop()
	session := newTestSession(t, sm)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+session.ID)

	got := sm.GetSessionFromRequest(req)
	if got == nil || got.ID != session.ID {
		t.Error("expected session resolved via bearer header")
	}
}

func TestSession_ExpiredCredentialsInvalidateSession(t *testing.T) {
	sm := NewSessionManager("test-secret")
	defer sm.Stop()
	session := newTestSession(t, sm)

	// Cleared backend tokens (e.g. after a failed refresh) kill the session.
	_ = session.Tokens.Clear()

	if sm.GetSession(session.ID) != nil {
		t.Error("expected session with cleared tokens treated as expired")
	}
}

func TestSession_ExpiryHonored(t *testing.T) {
	sm := NewSessionManager("test-secret")
	defer sm.Stop()
	session := newTestSession(t, sm)
	session.ExpiresAt = time.Now().Add(-time.Minute)

	if sm.GetSession(session.ID) != nil {
		t.Error("expected expired session dropped")
	}
}

func TestRequireAuth(t *testing.T) {
	sm := NewSessionManager("test-secret")
	defer sm.Stop()
	session := newTestSession(t, sm)

	var sawSession *Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSession = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(sm)(next)

	// Without credentials.
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", recorder.Code)
	}

	// With a valid bearer session.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+session.ID)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 with session, got %d", recorder.Code)
	}
	if sawSession == nil || sawSession.ID != session.ID {
		t.Error("expected session available in context")
	}
}

func TestWithBackendClient(t *testing.T) {
	sm := NewSessionManager("test-secret")
	defer sm.Stop()
	session := newTestSession(t, sm)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetClientFromContext(r.Context()) == nil {
			t.Error("expected backend client in context")
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := WithBackendClient()(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), session))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", recorder.Code)
	}

	// Without a session the middleware refuses.
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", recorder.Code)
	}
}
