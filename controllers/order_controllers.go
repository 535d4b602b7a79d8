package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type OrderController struct {
	service services.OrderService
}

func NewOrderController(service services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// GetAllOrders lists the orders of the authenticated restaurant.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	orders, err := oc.service.ListByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetRestaurantOrders(c *gin.Context) {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	orders, err := oc.service.ListByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req dto.OrderRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	order, err := oc.service.Create(c.Request.Context(), restaurantID, req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
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
	order, err := oc.service.GetByID(c.Request.Context(), restaurantID, id)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus sets the status of every open line of the order.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
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
	var req dto.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	order, err := oc.service.UpdateOrderStatus(c.Request.Context(), restaurantID, id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) UpdateLineStatus(c *gin.Context) {
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
	dishID, err := paramID(c, "dishId")
	if err != nil {
		c.Error(err)
		return
	}
	var req dto.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	order, err := oc.service.UpdateLineStatus(c.Request.Context(), restaurantID, id, dishID, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order line updated", order)
}

// CancelOrder cancels the whole order, or only the line of ?dishId=.
func (oc *OrderController) CancelOrder(c *gin.Context) {
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

	var dishID *uint
	if raw := c.Query("dishId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			c.Error(utils.NewValidationError("invalid dishId"))
			return
		}
		v := uint(parsed)
		dishID = &v
	}

	order, err := oc.service.Cancel(c.Request.Context(), restaurantID, id, dishID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
