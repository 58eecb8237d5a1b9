package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/faceapi"
	"github.com/facedeck/facedeck/internal/web/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, sm *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{
		config:         cfg,
		sessionManager: sm,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"session_id,omitempty"`
	ExpiresAt string        `json:"expires_at,omitempty"`
	User      *faceapi.User `json:"user,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Login authenticates against the recognition backend and opens a browser
// session that owns the resulting token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	tokens := &faceapi.StaticTokens{}
	client, err := faceapi.NewClient(h.config.API.URL, tokens, faceapi.WithTimeout(h.config.API.Timeout))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "invalid backend configuration")
		return
	}

	pair, err := client.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if faceapi.IsNetworkError(err) {
			respondError(w, http.StatusBadGateway, "recognition backend unreachable")
			return
		}
		respondJSON(w, http.StatusUnauthorized, LoginResponse{
			Success: false,
			Error:   "invalid credentials",
		})
		return
	}
	_ = tokens.Update(*pair)

	// A missing profile is not fatal; the session works without it.
	user, err := client.Me(r.Context())
	if err != nil {
		user = nil
	}

	session, err := h.sessionManager.CreateSession(user, client, tokens)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.sessionManager.SetSessionCookie(w, session)

	respondJSON(w, http.StatusOK, LoginResponse{
		Success:   true,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		User:      user,
	})
}

// Logout invalidates the backend session and removes the browser session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.sessionManager.GetSessionFromRequest(r)
	if session != nil {
		// Best effort; the local session dies either way.
		_ = session.Client.Logout(r.Context())
		h.sessionManager.DeleteSession(session.ID)
	}

	h.sessionManager.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// StatusResponse represents the auth status response
type StatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	ExpiresAt     string        `json:"expires_at,omitempty"`
	User          *faceapi.User `json:"user,omitempty"`
}

// Status checks if the user is authenticated by validating the session.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	session := h.sessionManager.GetSessionFromRequest(r)
	if session == nil {
		respondJSON(w, http.StatusOK, StatusResponse{Authenticated: false})
		return
	}
	respondJSON(w, http.StatusOK, StatusResponse{
		Authenticated: true,
		ExpiresAt:     session.ExpiresAt.Format(time.RFC3339),
		User:          session.User,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new operator account on the backend. It does not open
// a session; the frontend follows up with a login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	client, err := faceapi.NewClient(h.config.API.URL, nil, faceapi.WithTimeout(h.config.API.Timeout))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "invalid backend configuration")
		return
	}

	user, err := client.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondBackendError(w, err, "failed to register account")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}
