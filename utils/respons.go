package utils

import (
	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type JSONResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, JSONResponse{
		Status:  StatusError,
		Message: message,
	})
}
