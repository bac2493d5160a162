package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("path %s", r.URL.Path)
		}
		if r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("grant_type %q", r.URL.Query().Get("grant_type"))
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Error("missing apikey header")
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "user@company.com" || body["password"] != "hunter22" {
			t.Errorf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(Session{
			AccessToken:  "at-123",
			RefreshToken: "rt-456",
			TokenType:    "bearer",
			User:         User{ID: "user-1", Email: "user@company.com"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	s, err := c.SignInWithPassword(context.Background(), "user@company.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AccessToken != "at-123" || s.User.ID != "user-1" {
		t.Errorf("session %+v", s)
	}
}

func TestSignUpSendsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("path %s", r.URL.Path)
		}
		var body struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Data["name"] != "Test User" || body.Data["username"] != "testuser" {
			t.Errorf("metadata %v", body.Data)
		}
		json.NewEncoder(w).Encode(Session{User: User{ID: "user-2", Email: body.Email}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	s, err := c.SignUp(context.Background(), "new@company.com", "hunter22", "Test User", "testuser")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.User.ID != "user-2" {
		t.Errorf("session %+v", s)
	}
}

func TestGetUserSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("authorization %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(User{ID: "user-3", Email: "u3@company.com"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	u, err := c.GetUser(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "user-3" {
		t.Errorf("user %+v", u)
	}
}

func TestProviderErrorText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description": "Invalid login credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	_, err := c.SignInWithPassword(context.Background(), "user@company.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid login credentials") {
		t.Errorf("error %v does not carry the provider description", err)
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Errorf("error %v does not carry the status", err)
	}
}

func TestSignOut(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key")
	if err := c.SignOut(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("provider not called")
	}
}
