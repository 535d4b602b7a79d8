package dto

import "github.com/shopspring/decimal"

type PreferenceRequest struct {
	Title     string          `json:"title" validate:"required,max=250"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0"`
}

func (r *PreferenceRequest) Validate() error {
	return validateStruct(r)
}

type PreferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point,omitempty"`
}

type CountryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CountryRequest) Validate() error {
	return validateStruct(r)
}
