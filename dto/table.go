package dto

import "github.com/yeremiapane/restaurant-hub/utils"

type TableRequest struct {
	Label    string `json:"label" validate:"required,max=50"`
	Capacity int    `json:"capacity" validate:"gt=0"`
}

func (r *TableRequest) Validate() error {
	return validateStruct(r)
}

type TableUpdate struct {
	Label    *string `json:"label" validate:"omitempty,min=1,max=50"`
	Capacity *int    `json:"capacity" validate:"omitempty,gt=0"`
}

func (r *TableUpdate) Validate() error {
	if r.Label == nil && r.Capacity == nil {
		return utils.NewValidationError("at least one field must be provided")
	}
	return validateStruct(r)
}
