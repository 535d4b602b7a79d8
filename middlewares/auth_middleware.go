package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/utils"
)

const (
	// TokenCookie holds the session JWT.
	TokenCookie = "token"

	ctxRestaurantID = "restaurant_id"
	ctxEmail        = "email"
	ctxToken        = "token"
)

// Authenticator validates session tokens and exposes the authenticated
// restaurant to handlers.
type Authenticator struct {
	tokens    *utils.TokenManager
	blacklist utils.TokenBlacklist
}

func NewAuthenticator(tokens *utils.TokenManager, blacklist utils.TokenBlacklist) *Authenticator {
	if blacklist == nil {
		blacklist = utils.NewMemoryBlacklist()
	}
	return &Authenticator{tokens: tokens, blacklist: blacklist}
}

// extractToken reads the session cookie, falling back to a bearer
// Authorization header.
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func (a *Authenticator) authenticate(c *gin.Context, token string) bool {
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, "authentication required")
		return false
	}

	claims, err := a.tokens.ParseToken(token)
	if err != nil || claims.Purpose != utils.PurposeSession || claims.RestaurantID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, "invalid or expired token")
		return false
	}

	revoked, err := a.blacklist.Contains(c.Request.Context(), token)
	if err != nil {
		utils.ErrorLogger.Printf("Error checking token blacklist: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return false
	}
	if revoked {
		utils.RespondError(c, http.StatusUnauthorized, "token has been revoked")
		return false
	}

	c.Set(ctxRestaurantID, claims.RestaurantID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxToken, token)
	return true
}

// RequireAuth rejects requests without a valid session.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticate(c, extractToken(c)) {
			return
		}
		c.Next()
	}
}

// RestaurantID returns the authenticated restaurant, if any.
func RestaurantID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxRestaurantID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// SessionToken returns the raw token the request was authenticated with.
func SessionToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
