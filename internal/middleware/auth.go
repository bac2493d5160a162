package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "auth_user_id"

// ContextToken is the gin context key holding the raw bearer token.
const ContextToken = "auth_token"

// AuthMiddleware verifies bearer tokens issued by the identity provider. The
// provider signs with HS256 using a shared secret, so verification is local;
// the subject claim is the provider's user id.
type AuthMiddleware struct {
	log       *logger.Logger
	jwtSecret []byte
}

func NewAuthMiddleware(log *logger.Logger, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "auth"), jwtSecret: []byte(jwtSecret)}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing or invalid token"})
			return
		}
		userID, err := am.verify(token)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid authentication credentials"})
			return
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextToken, token)
		c.Next()
	}
}

func (am *AuthMiddleware) verify(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return am.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

func extractBearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}
