package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"barter-auth/internal/service"
)

const authClaimsKey = "auth_claims"

// SessionParser valida tokens de sesion.
type SessionParser interface {
	ParseSessionToken(token string) (service.SessionClaims, error)
}

// JWTAuthMiddleware valida el bearer token de sesion y guarda claims en el contexto.
func JWTAuthMiddleware(sessions SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := sessions.ParseSessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene claims de sesion desde el contexto.
func GetAuthClaims(c *gin.Context) (service.SessionClaims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.SessionClaims{}, false
	}
	claims, ok := val.(service.SessionClaims)
	return claims, ok
}
