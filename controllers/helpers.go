package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewValidationError("invalid " + name)
	}
	return uint(id), nil
}

// sessionRestaurant returns the restaurant authenticated on the request.
func sessionRestaurant(c *gin.Context) (uint, error) {
	id, ok := middlewares.RestaurantID(c)
	if !ok {
		return 0, utils.NewUnauthorizedError("authentication required")
	}
	return id, nil
}

func bindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return utils.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
