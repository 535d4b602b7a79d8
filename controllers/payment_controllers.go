package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type PaymentController struct {
	service services.PaymentService
}

func NewPaymentController(service services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

// CreatePreference starts a Mercado Pago checkout and returns the
// preference the frontend redirects to.
func (pc *PaymentController) CreatePreference(c *gin.Context) {
	var req dto.PreferenceRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	pref, err := pc.service.CreatePreference(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment preference created", pref)
}
