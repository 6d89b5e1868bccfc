package api

import (
	"context"
	"net/http"

	"github.com/abhisek/topiq/internal/auth"
)

// credentialsResponse is the triple returned by login and register.
type credentialsResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         *auth.User `json:"user"`
}

func (r credentialsResponse) session() auth.Session {
	return auth.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         r.User,
	}
}

// Login exchanges email and password for a session triple.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var resp credentialsResponse
	_, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return auth.Session{}, err
	}
	return resp.session(), nil
}

// Register creates an account and returns its session triple.
func (c *Client) Register(ctx context.Context, name, email, password string) (auth.Session, error) {
	var resp credentialsResponse
	_, err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return auth.Session{}, err
	}
	return resp.session(), nil
}

// Revoke invalidates the refresh token server-side. The current access
// token is attached as bearer from the token store, which the caller has
// not yet cleared. Callers treat this as best-effort: local teardown
// proceeds whatever the outcome.
func (c *Client) Revoke(ctx context.Context, refreshToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", map[string]string{
		"refreshToken": refreshToken,
	}, nil)
	return err
}
