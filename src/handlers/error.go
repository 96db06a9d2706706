package handlers

import "github.com/gin-gonic/gin"

// respondWithError writes the plain JSON error body used by the non-page
// endpoints. No structured codes, just the HTTP status and a message.
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
