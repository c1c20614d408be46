// README: Bearer credential middleware. The token is forwarded to Google, not verified here.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerTokenKey = "bearer_token"

// RequireBearer rejects requests without an "Authorization: Bearer <token>"
// header and stores the token for handlers.
func RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := parseBearer(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(bearerTokenKey, token)
		c.Next()
	}
}

// BearerToken returns the token stored by RequireBearer, or "".
func BearerToken(c *gin.Context) string {
	return c.GetString(bearerTokenKey)
}

func parseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
