package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the external identity provider (GoTrue-compatible HTTP
// API). The service never stores credentials itself; every auth operation is
// delegated here.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// User is the provider's view of an authenticated account.
type User struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata,omitempty"`
}

// Session is an issued token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

type providerError struct {
	Message     string `json:"msg"`
	Description string `json:"error_description"`
}

func (e *providerError) text() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Message != "" {
		return e.Message
	}
	return "identity provider error"
}

// SignUp registers a new account. Name and username land in the provider's
// user metadata; the profiles side table row is created by the provider.
func (c *Client) SignUp(ctx context.Context, email, password, name, username string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"name":     name,
			"username": username,
		},
	}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SignInWithPassword exchanges credentials for a token pair.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{"email": email, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetUser resolves the bearer token to its account.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignOut revokes the session behind the token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", token, nil, nil)
}

// Recover asks the provider to send a password-reset email.
func (c *Client) Recover(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/recover", "", map[string]any{"email": email}, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pe providerError
		if json.Unmarshal(respBody, &pe) == nil {
			return fmt.Errorf("identity provider (status %d): %s", resp.StatusCode, pe.text())
		}
		return fmt.Errorf("identity provider (status %d)", resp.StatusCode)
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
