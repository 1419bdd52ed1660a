package middlewares

import (
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects POST/PUT/PATCH requests whose Content-Type is not
// application/json (parameters such as charset are allowed).
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
			if err != nil || mediaType != "application/json" {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"status":    http.StatusUnsupportedMediaType,
					"message":   "Content-Type must be application/json",
					"timestamp": time.Now().UTC(),
				})
				return
			}
		}
		c.Next()
	}
}
