package models

type Table struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Label        string `gorm:"column:etiqueta;type:varchar(50);not null" json:"label"`
	Capacity     int    `gorm:"column:capacidad;not null" json:"capacity"`
	RestaurantID uint   `gorm:"column:restaurante_id;not null;index" json:"restaurant_id"`
}

func (Table) TableName() string { return "mesa" }
