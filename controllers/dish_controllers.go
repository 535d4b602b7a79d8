package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type DishController struct {
	service services.DishService
}

func NewDishController(service services.DishService) *DishController {
	return &DishController{service: service}
}

func (dc *DishController) GetByID(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	dish, err := dc.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", dish)
}

// ListByRestaurant returns the menu, optionally narrowed to ?category=.
func (dc *DishController) ListByRestaurant(c *gin.Context) {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	dishes, err := dc.service.ListByRestaurant(c.Request.Context(), restaurantID, c.Query("category"))
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", dishes)
}

func (dc *DishController) Create(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req dto.DishRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	dish, err := dc.service.Create(c.Request.Context(), restaurantID, req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

func (dc *DishController) Update(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req dto.DishUpdate
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	dish, err := dc.service.Update(c.Request.Context(), restaurantID, id, req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

func (dc *DishController) Delete(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := dc.service.Delete(c.Request.Context(), restaurantID, id); err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"id": id})
}

func (dc *DishController) UploadImage(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.Error(utils.NewValidationError("image file is required"))
		return
	}

	dish, err := dc.service.SetImage(c.Request.Context(), restaurantID, id, file)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Image updated", dish)
}
