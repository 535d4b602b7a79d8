package services

import (
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// DeriveOrderStatus computes an order's status from its lines: pending
// while any line is pending, cancelled once every line is cancelled,
// delivered otherwise.
func DeriveOrderStatus(lines []models.OrderLine) string {
	if len(lines) == 0 {
		return models.LinePending
	}
	cancelled := 0
	for _, l := range lines {
		switch l.Status {
		case models.LinePending:
			return models.LinePending
		case models.LineCancelled:
			cancelled++
		}
	}
	if cancelled == len(lines) {
		return models.LineCancelled
	}
	return models.LineDelivered
}

// OrderTotal sums the line totals.
func OrderTotal(lines []models.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}

func toOrderResponse(o models.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		name := ""
		if l.Dish != nil {
			name = l.Dish.Name
		}
		lines = append(lines, dto.OrderLineResponse{
			DishID:         l.DishID,
			DishName:       name,
			Quantity:       l.Quantity,
			Status:         l.Status,
			Total:          l.Total,
			FormattedTotal: utils.FormatCurrency(l.Total),
		})
	}
	return dto.OrderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		CreatedAt:    o.CreatedAt,
		Status:       DeriveOrderStatus(o.Lines),
		Total:        OrderTotal(o.Lines),
		Lines:        lines,
	}
}
