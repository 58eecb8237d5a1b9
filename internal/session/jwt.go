package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// TokenExpiry decodes the exp claim of a JWT without verifying the
// signature; the backend is the authority, this is only for scheduling
// refreshes. Any malformed token yields the zero time, which callers treat
// as already expired. It never panics.
func TokenExpiry(token string) time.Time {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		// Some issuers pad their segments.
		payload, err = base64.URLEncoding.DecodeString(parts[1])
		if err != nil {
			return time.Time{}
		}
	}

	var claims struct {
		Exp float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp <= 0 {
		return time.Time{}
	}

	return time.Unix(int64(claims.Exp), 0)
}
