package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type CountryController struct {
	service services.CountryService
}

func NewCountryController(service services.CountryService) *CountryController {
	return &CountryController{service: service}
}

func (cc *CountryController) List(c *gin.Context) {
	countries, err := cc.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", countries)
}

func (cc *CountryController) Create(c *gin.Context) {
	var req dto.CountryRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	country, err := cc.service.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Country created", country)
}

func RestaurantCategories(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "", models.RestaurantCategories)
}

func DishCategories(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "", models.DishCategories)
}
