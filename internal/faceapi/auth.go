package faceapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Login submits credentials and returns the token pair. The backend expects
// form-encoded credentials (OAuth2 password flow), not JSON. Like Refresh,
// it bypasses the 401-recovery path: a credential failure is a plain 401 and
// must not refresh or clear whatever tokens the client already holds.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	status, body, err := c.send(ctx, http.MethodPost, "auth/login", "application/x-www-form-urlencoded", []byte(form.Encode()), "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newAPIError(status, body)
	}

	pair, err := unmarshalResponse[TokenPair](body)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}
	return pair, nil
}

// Register creates a new operator account. Unauthenticated, so it skips the
// 401-recovery path like Login does.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	payload, err := marshalJSON(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, http.MethodPost, "auth/register", "application/json", payload, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, newAPIError(status, body)
	}
	return unmarshalResponse[User](body)
}

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	return doGetJSON[User](ctx, c, "auth/me")
}

// Refresh exchanges a refresh token for a new token pair. It bypasses the
// 401-recovery path on purpose: a failing refresh must never trigger
// another refresh.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	payload, err := marshalJSON(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, http.MethodPost, "auth/refresh", "application/json", payload, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newAPIError(status, body)
	}

	pair, err := unmarshalResponse[TokenPair](body)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("refresh response carried no access token")
	}
	return pair, nil
}

// Logout invalidates the session server-side. Best effort: callers clear
// local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "auth/logout", "", nil, http.StatusOK, http.StatusNoContent)
	return err
}
