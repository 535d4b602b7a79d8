package middlewares

import (
	"github.com/gin-gonic/gin"
)

// WebSocketAuth authenticates a kitchen screen. Browsers cannot set
// headers on the upgrade request, so besides the cookie a token query
// parameter is accepted.
func (a *Authenticator) WebSocketAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if !a.authenticate(c, token) {
			return
		}
		c.Next()
	}
}
