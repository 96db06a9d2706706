package middleware

import (
	"net/http"

	"blog-go/src/auth"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookieName is the cookie carrying the signed session token.
	TokenCookieName = "token"
	// UserIDContextKey is where RequireAuth stores the authenticated user id.
	UserIDContextKey = "user_id"
)

// RequireAuth gates admin routes. A missing or unverifiable token cookie
// short-circuits the request with 401; the downstream handler never runs.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		userID, err := auth.VerifyToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}
