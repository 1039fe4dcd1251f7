package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
)

const (
	// SessionContextKey is a gin context key for the authenticated session.
	SessionContextKey = "session"
	sessionCookieName = "wallet_session"
	tokenQueryParam   = "token"
)

// SessionLoader resolves a session token to a live session.
type SessionLoader interface {
	LoadSession(ctx context.Context, token string) (*model.Session, error)
}

// SessionRequired ensures the request carries a valid session before it
// reaches the handler.
func SessionRequired(loader SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainErrors.MsgSignIn})
			return
		}

		sess, err := loader.LoadSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domainErrors.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainErrors.MsgSignIn})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": domainErrors.MsgGeneric})
			return
		}

		c.Set(SessionContextKey, sess)
		c.Next()
	}
}

// extractToken reads the bearer header, then the session cookie. Browsers
// cannot set headers on websocket upgrades, so those may pass the token as a
// query parameter instead.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query(tokenQueryParam)
	}
	return ""
}

// SetSessionCookie writes the session token cookie to the response.
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}
