package middleware

import (
	"net/http"

	"marksync/config"

	"github.com/gin-gonic/gin"
)

// CORS allows the configured extension and web origins to call the API with
// credentials. If-Modified-Since must be allowed and Last-Modified exposed
// for the sync endpoint to work cross-origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && originAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, If-Modified-Since")
			c.Header("Access-Control-Expose-Headers", "Last-Modified")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(origin string) bool {
	for _, allowed := range config.AppConfig.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
