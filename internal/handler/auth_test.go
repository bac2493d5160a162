package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sahay-helpdesk/helpdesk-service/internal/errs"
	"github.com/sahay-helpdesk/helpdesk-service/internal/identity"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
	"github.com/sahay-helpdesk/helpdesk-service/internal/middleware"
	"github.com/sahay-helpdesk/helpdesk-service/internal/model"
)

type fakeIdentity struct {
	signInErr  error
	signedOut  []string
	recovered  []string
	lastSignUp map[string]string
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password, name, username string) (*identity.Session, error) {
	f.lastSignUp = map[string]string{"email": email, "name": name, "username": username}
	return &identity.Session{User: identity.User{ID: "user-1", Email: email}}, nil
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &identity.Session{AccessToken: "at-1", User: identity.User{ID: "user-1", Email: email}}, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeIdentity) Recover(_ context.Context, email string) error {
	f.recovered = append(f.recovered, email)
	return nil
}

type fakeProfiles struct {
	profiles map[string]*model.Profile
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, errs.ErrProfileNotFound
	}
	return p, nil
}

// fakeAuthMW injects the user id without real token verification.
func fakeAuthMW(userID, token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextToken, token)
		c.Next()
	}
}

func newAuthTestRouter(idp *fakeIdentity, profiles *fakeProfiles) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(idp, profiles, logger.NewNop())
	r := gin.New()
	g := r.Group("/api/v1/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/reset-password", h.ResetPassword)
	g.GET("/me", fakeAuthMW("user-1", "tok-1"), h.Me)
	g.POST("/logout", fakeAuthMW("user-1", "tok-1"), h.Logout)
	return r
}

func TestRegisterDelegatesToProvider(t *testing.T) {
	idp := &fakeIdentity{}
	r := newAuthTestRouter(idp, &fakeProfiles{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    "new@company.com",
		"password": "hunter22!",
		"name":     "New User",
		"username": "newuser",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if idp.lastSignUp["username"] != "newuser" {
		t.Errorf("metadata not forwarded: %v", idp.lastSignUp)
	}
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	idp := &fakeIdentity{}
	r := newAuthTestRouter(idp, &fakeProfiles{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    "new@company.com",
		"password": "short",
		"name":     "New User",
		"username": "newuser",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", w.Code)
	}
	if idp.lastSignUp != nil {
		t.Error("provider called despite validation failure")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	idp := &fakeIdentity{signInErr: errors.New("identity provider (status 400): Invalid login credentials")}
	r := newAuthTestRouter(idp, &fakeProfiles{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "user@company.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}

func TestMeReturnsProfile(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*model.Profile{
		"user-1": {ID: "user-1", Email: "user@company.com", Username: "user1"},
	}}
	r := newAuthTestRouter(&fakeIdentity{}, profiles)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var got model.Profile
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Username != "user1" {
		t.Errorf("profile %+v", got)
	}
}

func TestMeMissingProfile(t *testing.T) {
	r := newAuthTestRouter(&fakeIdentity{}, &fakeProfiles{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	idp := &fakeIdentity{}
	r := newAuthTestRouter(idp, &fakeProfiles{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if len(idp.signedOut) != 1 || idp.signedOut[0] != "tok-1" {
		t.Errorf("sign out calls %v", idp.signedOut)
	}
}

func TestResetPassword(t *testing.T) {
	idp := &fakeIdentity{}
	r := newAuthTestRouter(idp, &fakeProfiles{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/reset-password", map[string]any{"email": "user@company.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if len(idp.recovered) != 1 {
		t.Errorf("recover calls %v", idp.recovered)
	}
}
