package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type TableController struct {
	service services.TableService
}

func NewTableController(service services.TableService) *TableController {
	return &TableController{service: service}
}

// CreateTable adds a table to the authenticated restaurant.
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req dto.TableRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	table, err := tc.service.Create(c.Request.Context(), restaurantID, req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

func (tc *TableController) GetTable(c *gin.Context) {
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
	table, err := tc.service.GetByID(c.Request.Context(), restaurantID, id)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

func (tc *TableController) GetRestaurantTables(c *gin.Context) {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	tables, err := tc.service.ListByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
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
	var req dto.TableUpdate
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	table, err := tc.service.Update(c.Request.Context(), restaurantID, id, req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
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
	if err := tc.service.Delete(c.Request.Context(), restaurantID, id); err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}
