package apiclient

import (
	"context"
	"net/http"
)

// LoginResult is the upstream login response plus the issued session cookie.
type LoginResult struct {
	Message string `json:"message"`
	Role    string `json:"role"`
	Session string `json:"-"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login forwards credentials and captures the session cookie set by the upstream.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, err := jsonBody(credentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	resp, err := c.Session("").doJSON(ctx, request{
		op:          "login",
		method:      http.MethodPost,
		path:        "/login",
		body:        body,
		contentType: "application/json",
	}, &result)
	if err != nil {
		return nil, err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == c.cookieName {
			result.Session = ck.Value
			break
		}
	}
	return &result, nil
}

// Logout ends the upstream session.
func (s *Session) Logout(ctx context.Context) (*Message, error) {
	var msg Message
	if _, err := s.doJSON(ctx, request{
		op:     "logout",
		method: http.MethodPost,
		path:   "/logout",
	}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
