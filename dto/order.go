package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-hub/utils"
)

type OrderLineRequest struct {
	DishID   uint `json:"dish_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gt=0"`
}

type OrderRequest struct {
	CustomerName string             `json:"customer_name" validate:"required,max=150"`
	Lines        []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r *OrderRequest) Validate() error {
	return validateStruct(r)
}

// MergedLines folds repeated dish ids into a single quantity, keeping
// first-seen order.
func (r *OrderRequest) MergedLines() []OrderLineRequest {
	index := make(map[uint]int, len(r.Lines))
	merged := make([]OrderLineRequest, 0, len(r.Lines))
	for _, l := range r.Lines {
		if i, ok := index[l.DishID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.DishID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,linestatus"`
}

func (r *StatusRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return utils.NewValidationError("invalid status: " + r.Status)
	}
	return nil
}

type OrderCreated struct {
	ID           uint   `json:"id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
}

type OrderLineResponse struct {
	DishID         uint            `json:"dish_id"`
	DishName       string          `json:"dish_name"`
	Quantity       int             `json:"quantity"`
	Status         string          `json:"status"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	CustomerName string              `json:"customer_name"`
	CreatedAt    time.Time           `json:"created_at"`
	Status       string              `json:"status"`
	Total        decimal.Decimal     `json:"total"`
	Lines        []OrderLineResponse `json:"lines"`
}
