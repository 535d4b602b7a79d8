package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type ReservationController struct {
	service services.ReservationService
}

func NewReservationController(service services.ReservationService) *ReservationController {
	return &ReservationController{service: service}
}

// List returns the reservations of the authenticated restaurant.
func (rc *ReservationController) List(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	list, err := rc.service.ListByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", list)
}

func (rc *ReservationController) ListByRestaurant(c *gin.Context) {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	list, err := rc.service.ListByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", list)
}

func (rc *ReservationController) Create(c *gin.Context) {
	var req dto.ReservationRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	created, err := rc.service.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", created)
}

func (rc *ReservationController) GetByID(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	res, err := rc.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", res)
}

func (rc *ReservationController) CheckCapacity(c *gin.Context) {
	restaurantID, err := paramID(c, "restaurantId")
	if err != nil {
		c.Error(err)
		return
	}
	var q dto.CapacityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(utils.NewValidationError("invalid query: " + err.Error()))
		return
	}
	if err := q.Validate(); err != nil {
		c.Error(err)
		return
	}

	summary, err := rc.service.CheckCapacity(c.Request.Context(), restaurantID, q.Date, *q.Hour)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", summary)
}

// AssignTable seats a reservation of the authenticated restaurant.
func (rc *ReservationController) AssignTable(c *gin.Context) {
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
	tableID, err := paramID(c, "tableId")
	if err != nil {
		c.Error(err)
		return
	}

	res, err := rc.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	if res.RestaurantID != restaurantID {
		c.Error(utils.NewForbiddenError("reservation belongs to another restaurant"))
		return
	}

	res, err = rc.service.AssignTable(c.Request.Context(), id, tableID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table assigned", res)
}

func (rc *ReservationController) Cancel(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := rc.service.Cancel(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{"id": id})
}
