package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/utils"
)

// RequireOwner only lets the authenticated restaurant act on the
// restaurant named by the given path parameter. It must run after
// RequireAuth.
func RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := RestaurantID(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		target, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "invalid "+param)
			return
		}
		if uint(target) != sessionID {
			utils.RespondError(c, http.StatusForbidden, "you can only manage your own restaurant")
			return
		}
		c.Next()
	}
}
