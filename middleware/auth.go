package middleware

import (
	"net/http"
	"strings"

	"marksync/config"
	"marksync/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the session for a request. The browser extension
// sends the session cookie; API clients may send the same token as a Bearer
// header instead.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			utils.Error(c, http.StatusUnauthorized, "not authenticated")
			c.Abort()
			return
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "session invalid or expired")
			c.Abort()
			return
		}

		c.Set("sub", claims.Sub)
		c.Set("email", claims.Email)
		if claims.Name != nil {
			c.Set("name", *claims.Name)
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(config.AppConfig.Session.CookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
