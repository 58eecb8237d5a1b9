package middleware

import (
	"context"
	"net/http"

	"github.com/facedeck/facedeck/internal/faceapi"
)

const clientContextKey contextKey = "faceapi"

// WithBackendClient is middleware that puts the session's backend client
// into the request context. The client is created once at login and reused
// so concurrent requests of one session share a single token refresh.
// Should be used after RequireAuth.
func WithBackendClient() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			if session == nil || session.Client == nil {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), clientContextKey, session.Client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientFromContext retrieves the backend client from the request
// context. Returns nil if no client is available.
func GetClientFromContext(ctx context.Context) *faceapi.Client {
	client, ok := ctx.Value(clientContextKey).(*faceapi.Client)
	if !ok {
		return nil
	}
	return client
}

// SetClientInContext adds a backend client to the context, for tests.
func SetClientInContext(ctx context.Context, client *faceapi.Client) context.Context {
	return context.WithValue(ctx, clientContextKey, client)
}

// MustGetClient retrieves the backend client from context. If not
// available, writes an error response and returns nil. Handlers should
// return immediately after receiving nil.
func MustGetClient(ctx context.Context, w http.ResponseWriter) *faceapi.Client {
	client := GetClientFromContext(ctx)
	if client == nil {
		http.Error(w, `{"error": "backend client not available"}`, http.StatusInternalServerError)
		return nil
	}
	return client
}
