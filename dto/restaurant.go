package dto

import (
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type AddressRequest struct {
	Street string `json:"street" validate:"required,max=255"`
	CityID uint   `json:"city_id" validate:"required"`
}

type RegisterRequest struct {
	Name                string         `json:"name" validate:"required,max=150"`
	Email               string         `json:"email" validate:"required,email"`
	Password            string         `json:"password" validate:"required,min=8,max=72"`
	Phone               string         `json:"phone" validate:"omitempty,max=30"`
	Description         string         `json:"description"`
	Category            string         `json:"category" validate:"omitempty,restaurantcategory"`
	ReservationCapacity int            `json:"reservation_capacity" validate:"gte=0"`
	Address             AddressRequest `json:"address"`
}

func (r *RegisterRequest) Validate() error {
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validateStruct(r)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validateStruct(r)
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *EmailRequest) Validate() error {
	return validateStruct(r)
}

// RestaurantUpdate carries only the fields being changed.
type RestaurantUpdate struct {
	Name                *string         `json:"name" validate:"omitempty,min=1,max=150"`
	Phone               *string         `json:"phone" validate:"omitempty,max=30"`
	Description         *string         `json:"description"`
	Category            *string         `json:"category" validate:"omitempty,restaurantcategory"`
	State               *string         `json:"state" validate:"omitempty,oneof=ACTIVO INACTIVO"`
	ReservationCapacity *int            `json:"reservation_capacity" validate:"omitempty,gte=0"`
	Address             *AddressRequest `json:"address"`
}

func (r *RestaurantUpdate) Validate() error {
	if r.Name == nil && r.Phone == nil && r.Description == nil && r.Category == nil &&
		r.State == nil && r.ReservationCapacity == nil && r.Address == nil {
		return utils.NewValidationError("at least one field must be provided")
	}
	return validateStruct(r)
}

type RestaurantFilter struct {
	Category     string `form:"category"`
	CityID       uint   `form:"city"`
	DepartmentID uint   `form:"department"`
	CountryID    uint   `form:"country"`
}

type AuthResponse struct {
	Restaurant *models.Restaurant `json:"restaurant"`
	Token      string             `json:"-"`
}
