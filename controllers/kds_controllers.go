package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type KDSController struct {
	hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades from the frontend origin, or from any
// origin when allowedOrigin is empty.
func NewKDSController(hub *kds.Hub, allowedOrigin string) *KDSController {
	return &KDSController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || strings.EqualFold(origin, allowedOrigin)
			},
		},
	}
}

// KDSHandler streams order and reservation events of the authenticated
// restaurant to a kitchen screen.
func (kc *KDSController) KDSHandler(c *gin.Context) {
	restaurantID, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Error upgrading kitchen screen connection: %v", err)
		return
	}

	kc.hub.Register(ws, restaurantID)
	defer kc.hub.Unregister(ws)

	// Screens only listen; reading detects the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
