package faceapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAuthExpired is returned when the session cannot be recovered: the
// refresh token is missing, the refresh call failed, or a retried request
// still came back unauthorized.
var ErrAuthExpired = errors.New("session expired, login required")

// APIError is the normalized error shape for all backend failures.
// Status 0 means the backend was unreachable (network error); any other
// value is the HTTP status the backend returned.
type APIError struct {
	Message string
	Status  int
	Code    string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %s", e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether the error is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// IsNetworkError reports whether the backend was unreachable.
func IsNetworkError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// IsAuthExpired reports whether the error means the user must log in again.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// errorBody is the JSON error payload the backend uses. FastAPI-style
// services put the message under "detail"; others use "error" or "message".
type errorBody struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// newAPIError builds an APIError from a response body, falling back to the
// raw body when it is not JSON.
func newAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		msg := eb.Detail
		if msg == "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = eb.Message
		}
		if msg != "" {
			return &APIError{Message: msg, Status: status, Code: eb.Code}
		}
	}
	return &APIError{Message: string(body), Status: status}
}
