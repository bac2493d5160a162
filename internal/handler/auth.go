package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahay-helpdesk/helpdesk-service/internal/errs"
	"github.com/sahay-helpdesk/helpdesk-service/internal/identity"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
	"github.com/sahay-helpdesk/helpdesk-service/internal/middleware"
	"github.com/sahay-helpdesk/helpdesk-service/internal/service"
)

// IdentityProvider is the slice of the identity client the auth handler
// needs. Every operation delegates to the external provider.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, name, username string) (*identity.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	SignOut(ctx context.Context, token string) error
	Recover(ctx context.Context, email string) error
}

type AuthHandler struct {
	idp      IdentityProvider
	profiles service.ProfileStorer
	log      *logger.Logger
}

func NewAuthHandler(idp IdentityProvider, profiles service.ProfileStorer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{idp: idp, profiles: profiles, log: log.With("handler", "auth")}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	session, err := h.idp.SignUp(c.Request.Context(), req.Email, req.Password, req.Name, req.Username)
	if err != nil {
		h.log.Error("register", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	session, err := h.idp.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Debug("login rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me handles GET /auth/me behind the auth middleware: resolves the token's
// user id to its profiles row.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	profile, err := h.profiles.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Logout handles POST /auth/logout behind the auth middleware.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	if err := h.idp.SignOut(c.Request.Context(), token); err != nil {
		h.log.Error("logout", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPassword handles POST /auth/reset-password: asks the provider to send
// the reset email.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if err := h.idp.Recover(c.Request.Context(), req.Email); err != nil {
		h.log.Error("reset password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}
