package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a walk-in order. Status and total are derived from Lines.
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CustomerName string      `gorm:"column:nombre_cliente;type:varchar(150);not null" json:"customer_name"`
	CreatedAt    time.Time   `gorm:"column:fecha;not null" json:"created_at"`
	Lines        []OrderLine `gorm:"foreignKey:OrderID" json:"lines"`
}

func (Order) TableName() string { return "pedido" }

type OrderLine struct {
	OrderID  uint            `gorm:"column:pedido_id;primaryKey" json:"order_id"`
	DishID   uint            `gorm:"column:platillo_id;primaryKey" json:"dish_id"`
	Quantity int             `gorm:"column:cantidad;not null" json:"quantity"`
	Status   string          `gorm:"column:estado;type:varchar(20);not null;default:'PENDIENTE'" json:"status"`
	Total    decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null" json:"total"`
	Dish     *Dish           `gorm:"foreignKey:DishID" json:"dish,omitempty"`
}

func (OrderLine) TableName() string { return "platillo_has_pedido" }
