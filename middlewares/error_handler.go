package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-hub/utils"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// ErrorHandler turns the last error a handler attached with c.Error into
// the JSON error envelope. Operational errors keep their status and
// message; anything else becomes a 500 without details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(ctxRequestID),
		}

		if appErr, ok := utils.AsAppError(err); ok {
			if appErr.Status >= http.StatusInternalServerError || appErr.Err != nil {
				utils.ErrorLogger.WithFields(fields).WithError(err).Error("request failed")
			}
			utils.RespondError(c, appErr.Status, appErr.Message)
			return
		}

		utils.ErrorLogger.WithFields(fields).WithError(err).Error("unexpected error")
		utils.RespondError(c, http.StatusInternalServerError, unexpectedErrorMessage)
	}
}

// Recovery answers a panicking handler with the generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  recovered,
		}).Error("panic recovered")
		utils.RespondError(c, http.StatusInternalServerError, unexpectedErrorMessage)
	})
}
