package models

// Restaurant states.
const (
	RestaurantActive     = "ACTIVO"
	RestaurantInactive   = "INACTIVO"
	RestaurantUnverified = "NO_VERIFICADO"
)

// Reservation states.
const (
	ReservationPending   = "PENDIENTE"
	ReservationConfirmed = "RESERVADO"
	ReservationCancelled = "CANCELADO"
)

// Order line states.
const (
	LinePending   = "PENDIENTE"
	LineDelivered = "ENTREGADO"
	LineCancelled = "CANCELADO"
)

// ActiveReservationStates are the states that consume slot capacity.
var ActiveReservationStates = []string{ReservationPending, ReservationConfirmed}

func IsValidLineStatus(status string) bool {
	switch status {
	case LinePending, LineDelivered, LineCancelled:
		return true
	}
	return false
}
