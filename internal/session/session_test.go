package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/facedeck/facedeck/internal/faceapi"
)

// makeJWT builds an unsigned JWT with the given expiry, enough for claim
// decoding tests.
func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":"u-1","exp":%d}`, exp.Unix())))
	return header + "." + payload + ".signature"
}

func TestTokenExpiry_ValidToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := makeJWT(t, exp)

	got := TokenExpiry(token)
	if !got.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, got)
	}
}

func TestTokenExpiry_MalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "opaque-token"},
		{"two segments", "a.b"},
		{"bad base64", "a.!!!.c"},
		{"payload not json", "a." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".c"},
		{"missing exp", "a." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x"}`)) + ".c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenExpiry(tt.token); !got.IsZero() {
				t.Errorf("expected zero time for %q, got %v", tt.token, got)
			}
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	sess := Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &faceapi.User{ID: "u-1", Username: "operator"},
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Errorf("unexpected tokens: %+v", loaded)
	}
	if loaded.User == nil || loaded.User.Username != "operator" {
		t.Errorf("expected user restored, got %+v", loaded.User)
	}
}

func TestFileStore_MissingFileIsEmptySession(t *testing.T) {
	store := NewFileStore(t.TempDir())

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.LoggedIn() {
		t.Error("expected logged-out session for missing file")
	}
}

func TestFileStore_ClearRemovesEverything(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	if err := store.Save(Session{AccessToken: "access", RefreshToken: "refresh"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, stateFileName)); !os.IsNotExist(err) {
		t.Error("expected state file removed")
	}

	// Clearing again is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestManager_UpdateDerivesExpiry(t *testing.T) {
	m := NewManager(&MemoryStore{})
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	if err := m.Update(faceapi.TokenPair{AccessToken: makeJWT(t, exp), RefreshToken: "refresh"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sess := m.Current()
	if !sess.ExpiresAt.Equal(exp) {
		t.Errorf("expected derived expiry %v, got %v", exp, sess.ExpiresAt)
	}
}

func TestManager_UpdateKeepsRefreshTokenWhenOmitted(t *testing.T) {
	m := NewManager(&MemoryStore{})

	if err := m.Update(faceapi.TokenPair{AccessToken: "a1", RefreshToken: "r1"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := m.Update(faceapi.TokenPair{AccessToken: "a2"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, refresh := m.Tokens()
	if refresh != "r1" {
		t.Errorf("expected refresh token kept, got %q", refresh)
	}
}

func TestManager_NearExpiry(t *testing.T) {
	m := NewManager(&MemoryStore{})

	if m.NearExpiry(time.Minute) {
		t.Error("logged-out session must not be near expiry")
	}

	// Opaque token: expiry cannot be decoded, treated as expired.
	_ = m.Update(faceapi.TokenPair{AccessToken: "opaque"})
	if !m.NearExpiry(time.Minute) {
		t.Error("undecodable expiry must count as expired")
	}

	_ = m.Update(faceapi.TokenPair{AccessToken: makeJWT(t, time.Now().Add(time.Hour))})
	if m.NearExpiry(time.Minute) {
		t.Error("token with an hour left is not near expiry")
	}

	_ = m.Update(faceapi.TokenPair{AccessToken: makeJWT(t, time.Now().Add(30 * time.Second))})
	if !m.NearExpiry(time.Minute) {
		t.Error("token expiring within leeway must be near expiry")
	}
}

func TestManager_ClearWipesStore(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	m := NewManager(store)

	if err := m.Update(faceapi.TokenPair{AccessToken: "access", RefreshToken: "refresh"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if m.Current().LoggedIn() {
		t.Error("expected logged-out session")
	}

	// No residual token on disk.
	if data, err := os.ReadFile(filepath.Join(dir, stateFileName)); err == nil {
		t.Errorf("expected state file removed, found %q", data)
	}
}

func TestManager_Login(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(faceapi.TokenPair{
				AccessToken:  makeJWT(t, exp),
				RefreshToken: "refresh",
				TokenType:    "bearer",
			})
		case "/auth/me":
			json.NewEncoder(w).Encode(faceapi.User{ID: "u-1", Username: "operator", IsActive: true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	store := &MemoryStore{}
	m := NewManager(store)
	client, err := faceapi.NewClient(server.URL, m)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	sess, err := m.Login(context.Background(), client, "operator", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if !sess.LoggedIn() {
		t.Error("expected logged-in session")
	}
	if sess.User == nil || sess.User.Username != "operator" {
		t.Errorf("expected profile merged into session, got %+v", sess.User)
	}
	if !store.saved {
		t.Error("expected session persisted")
	}
}

func TestManager_LogoutAlwaysClearsLocally(t *testing.T) {
	// Backend that refuses the logout call.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := NewManager(&MemoryStore{})
	_ = m.Update(faceapi.TokenPair{AccessToken: "access", RefreshToken: "refresh"})

	client, err := faceapi.NewClient(server.URL, m)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := m.Logout(context.Background(), client); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if m.Current().LoggedIn() {
		t.Error("expected local session cleared despite server failure")
	}
}
