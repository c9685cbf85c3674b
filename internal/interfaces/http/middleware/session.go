// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/pkg/auth"
)

const (
	SessionHeader = "X-Session-Token"
	SessionIDKey  = "session_id"
)

// Session resolves the guest session for the request. The token is read from the
// session cookie, the X-Session-Token header or a Bearer Authorization header, in
// that order. A missing or invalid token starts a new session.
func Session(cfg *config.Config, sessions *auth.SessionManager, logger *logrus.Logger) gin.HandlerFunc {
	maxAge := int(cfg.Session.TTL.Seconds())

	return func(c *gin.Context) {
		var sessionID string

		if raw := sessionToken(c, cfg.Session.CookieName); raw != "" {
			claims, err := sessions.ValidateToken(raw)
			if err == nil {
				sessionID = claims.SessionID
			} else {
				logger.WithError(err).Debug("Discarding invalid session token")
			}
		}

		if sessionID == "" {
			id, token, err := sessions.NewSession()
			if err != nil {
				logger.WithError(err).Error("Failed to issue session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to start session",
				})
				return
			}
			sessionID = id

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Session.CookieName, token, maxAge, "/", "", cfg.Session.Secure, true)
			c.Header(SessionHeader, token)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	if token := c.GetHeader(SessionHeader); token != "" {
		return token
	}
	return auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
}

// GetSessionID extracts the guest session id from gin context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := sessionID.(string)
	return id, ok && id != ""
}
