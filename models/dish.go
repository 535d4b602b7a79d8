package models

import "github.com/shopspring/decimal"

type Dish struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"column:nombre;type:varchar(150);not null" json:"name"`
	Description  string          `gorm:"column:descripcion;type:text" json:"description"`
	Price        decimal.Decimal `gorm:"column:precio;type:decimal(10,2);not null" json:"price"`
	Stock        int             `gorm:"column:existencias;not null;default:0" json:"stock"`
	Category     string          `gorm:"column:categoria;type:varchar(60)" json:"category"`
	ImageURL     string          `gorm:"column:imagen_url;type:varchar(500)" json:"image_url"`
	RestaurantID uint            `gorm:"column:restaurante_id;not null;index" json:"restaurant_id"`
}

func (Dish) TableName() string { return "platillo" }
