package models

import "time"

type Reservation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Date         string    `gorm:"column:fecha;type:varchar(10);not null;index:idx_reserva_slot,priority:2" json:"date"`
	Time         string    `gorm:"column:hora;type:varchar(5);not null;index:idx_reserva_slot,priority:3" json:"time"`
	PartySize    int       `gorm:"column:cantidad;not null" json:"party_size"`
	Status       string    `gorm:"column:estado;type:varchar(20);not null;default:'PENDIENTE'" json:"status"`
	Name         string    `gorm:"column:nombre;type:varchar(150);not null" json:"name"`
	Phone        string    `gorm:"column:telefono;type:varchar(30)" json:"phone"`
	Email        string    `gorm:"column:correo;type:varchar(150)" json:"email"`
	DocumentID   string    `gorm:"column:cedula;type:varchar(30)" json:"document_id"`
	RestaurantID uint      `gorm:"column:restaurante_id;not null;index:idx_reserva_slot,priority:1" json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`

	// TableLabel is filled by reads that join the assigned table.
	TableLabel *string `gorm:"->;column:mesa_etiqueta;-:migration" json:"table_label"`
}

func (Reservation) TableName() string { return "reservas" }

// ReservationTable links a reservation to the table it was seated at.
type ReservationTable struct {
	TableID       uint `gorm:"column:mesa_id;primaryKey"`
	ReservationID uint `gorm:"column:reserva_id;primaryKey"`
}

func (ReservationTable) TableName() string { return "mesa_has_reservas" }
