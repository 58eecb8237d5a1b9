package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/facedeck/facedeck/internal/faceapi"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondBackendError translates a backend client error into an API
// response. Auth expiry becomes 401 so the frontend can redirect to login;
// an unreachable backend becomes 502; any other backend status is passed
// through with its message.
func respondBackendError(w http.ResponseWriter, err error, fallback string) {
	if faceapi.IsAuthExpired(err) {
		respondError(w, http.StatusUnauthorized, "session expired, login required")
		return
	}
	if faceapi.IsNetworkError(err) {
		respondError(w, http.StatusBadGateway, "recognition backend unreachable")
		return
	}

	var apiErr *faceapi.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 {
		respondError(w, apiErr.Status, apiErr.Message)
		return
	}

	respondError(w, http.StatusInternalServerError, fallback)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
