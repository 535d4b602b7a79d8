package dto

import "github.com/yeremiapane/restaurant-hub/models"

type ReservationRequest struct {
	Date         string `json:"date" validate:"required,date"`
	Time         string `json:"time" validate:"required,clock"`
	PartySize    int    `json:"party_size" validate:"gt=0"`
	RestaurantID uint   `json:"restaurant_id" validate:"required"`
	Name         string `json:"name" validate:"required,max=150"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	Email        string `json:"email" validate:"omitempty,email"`
	DocumentID   string `json:"document_id" validate:"omitempty,max=30"`
}

func (r *ReservationRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	r.Time = NormalizeClock(r.Time)
	return nil
}

type CapacityQuery struct {
	Date string `form:"date" json:"date" validate:"required,date"`
	Hour *int   `form:"hour" json:"hour" validate:"required,gte=0,lte=23"`
}

func (q *CapacityQuery) Validate() error {
	return validateStruct(q)
}

type CapacitySummary struct {
	RestaurantID uint   `json:"restaurant_id"`
	Date         string `json:"date"`
	Hour         int    `json:"hour"`
	Capacity     int    `json:"capacity"`
	Reserved     int    `json:"reserved"`
	Available    int    `json:"available"`
}

type ReservationCreated struct {
	Reservation *models.Reservation `json:"reservation"`
	Capacity    CapacitySummary     `json:"capacity"`
}
