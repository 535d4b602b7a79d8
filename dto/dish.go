package dto

import (
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-hub/utils"
)

type DishRequest struct {
	Name        string          `json:"name" validate:"required,max=150"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,dishcategory"`
}

func (r *DishRequest) Validate() error {
	return validateStruct(r)
}

type DishUpdate struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Category    *string          `json:"category" validate:"omitempty,dishcategory"`
}

func (r *DishUpdate) Validate() error {
	if r.Name == nil && r.Description == nil && r.Price == nil && r.Stock == nil && r.Category == nil {
		return utils.NewValidationError("at least one field must be provided")
	}
	if r.Price != nil && !r.Price.IsPositive() {
		return utils.NewValidationError("invalid fields: price: gt=0")
	}
	return validateStruct(r)
}
