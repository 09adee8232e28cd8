package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/analytiq-hub/docrouter-tenants/internal/repository"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
	"github.com/analytiq-hub/docrouter-tenants/internal/token"
)

const sessionKey = "appSession"

// Auth validates the Authorization header and attaches the normalized
// session. The cache is optional; when nil every request re-verifies the
// token signature.
type Auth struct {
	Verifier *token.Verifier
	Cache    repository.SessionCache
	CacheTTL time.Duration
}

// Authenticate ensures the request carries a valid bearer session token.
func (m *Auth) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "error_description": "Authorization header required."})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "error_description": "Bearer token required."})
		return
	}
	raw := parts[1]

	digest := tokenDigest(raw)
	if m.Cache != nil {
		cached, err := m.Cache.Get(c.Request.Context(), digest)
		if err != nil {
			zap.L().Warn("session cache lookup failed", zap.Error(err))
		} else if cached != nil {
			c.Set(sessionKey, *cached)
			c.Next()
			return
		}
	}

	providerSession, err := m.Verifier.Parse(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "error_description": "Invalid session token."})
		return
	}

	sess := session.Resolve(providerSession)
	if sess == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "error_description": "Session has no user identity."})
		return
	}

	if m.Cache != nil {
		if err := m.Cache.Save(c.Request.Context(), digest, *sess, m.CacheTTL); err != nil {
			zap.L().Warn("session cache save failed", zap.Error(err))
		}
	}

	c.Set(sessionKey, *sess)
	c.Next()
}

// Logout evicts the caller's cached session so the token is re-verified on
// its next use. The token itself stays valid until it expires; revocation is
// the auth frontend's job.
func (m *Auth) Logout(c *gin.Context) {
	if m.Cache != nil {
		header := c.GetHeader("Authorization")
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
			if err := m.Cache.Delete(c.Request.Context(), tokenDigest(parts[1])); err != nil {
				zap.L().Warn("session cache eviction failed", zap.Error(err))
			}
		}
	}
	c.Status(http.StatusNoContent)
}

// GetSession extracts the normalized session attached by Authenticate.
func GetSession(c *gin.Context) (session.AppSession, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return session.AppSession{}, false
	}
	sess, ok := value.(session.AppSession)
	return sess, ok
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}
