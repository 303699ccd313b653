package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ledger/internal/config"
	apperrors "ledger/internal/errors"
	"ledger/internal/uuid"
)

const sessionIDKey = "sessionID"

// SessionConfig describes the cookie that carries the anonymous session token.
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// DefaultSessionConfig is a sessionId cookie living for seven days.
var DefaultSessionConfig = SessionConfig{
	CookieName: "sessionId",
	MaxAge:     7 * 24 * time.Hour,
}

// NewSessionConfig builds the cookie settings from application configuration.
func NewSessionConfig(cfg *config.Config) SessionConfig {
	return SessionConfig{
		CookieName: cfg.SessionCookieName,
		MaxAge:     cfg.SessionMaxAge,
		Secure:     cfg.CookieSecure,
	}
}

// readSessionCookie returns the token only when it looks like one we minted.
func readSessionCookie(c *gin.Context, name string) (string, bool) {
	token, err := c.Cookie(name)
	if err != nil || !uuid.IsValid(token) {
		return "", false
	}
	return token, true
}

// RequireSession rejects requests without a valid session cookie before any
// handler runs. The error body is rendered by ErrorHandler.
func RequireSession(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := readSessionCookie(c, cfg.CookieName)
		if !ok {
			c.Status(http.StatusUnauthorized)
			_ = c.Error(apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(sessionIDKey, token)
		c.Next()
	}
}

// EnsureSession returns the caller's session token, minting a new one and
// setting the cookie when none was presented.
func EnsureSession(c *gin.Context, cfg SessionConfig) string {
	if token, ok := readSessionCookie(c, cfg.CookieName); ok {
		c.Set(sessionIDKey, token)
		return token
	}

	token := uuid.New()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, token, int(cfg.MaxAge/time.Second), "/", "", cfg.Secure, true)
	c.Set(sessionIDKey, token)
	return token
}

// SessionID returns the session token resolved earlier in the chain.
func SessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(sessionIDKey)
	if !exists {
		return "", false
	}
	token, ok := v.(string)
	return token, ok && token != ""
}
