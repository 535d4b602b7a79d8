package models

import "time"

type Restaurant struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Name                string    `gorm:"column:nombre;type:varchar(150);not null" json:"name"`
	Email               string    `gorm:"column:correo;type:varchar(150);not null;uniqueIndex" json:"email"`
	Phone               string    `gorm:"column:telefono;type:varchar(30)" json:"phone"`
	Description         string    `gorm:"column:descripcion;type:text" json:"description"`
	Category            string    `gorm:"column:categoria;type:varchar(60)" json:"category"`
	State               string    `gorm:"column:estado;type:varchar(20);not null;default:'NO_VERIFICADO'" json:"state"`
	ReservationCapacity int       `gorm:"column:capacidad_reservas;not null;default:0" json:"reservation_capacity"`
	Password            *string   `gorm:"column:contrasena;type:varchar(255)" json:"-"`
	GoogleID            *string   `gorm:"column:google_id;type:varchar(100);uniqueIndex" json:"-"`
	ImageURL            string    `gorm:"column:imagen_url;type:varchar(500)" json:"image_url"`
	AddressID           *uint     `gorm:"column:direccion_id;index" json:"address_id"`
	Address             *Address  `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Restaurant) TableName() string { return "restaurante" }

func (r *Restaurant) HasPassword() bool {
	return r.Password != nil && *r.Password != ""
}

type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"column:restaurante_id;not null;index" json:"restaurant_id"`
	Plan         string    `gorm:"column:plan;type:varchar(30);not null;default:'BASICO'" json:"plan"`
	State        string    `gorm:"column:estado;type:varchar(20);not null;default:'ACTIVO'" json:"state"`
	StartedAt    time.Time `gorm:"column:fecha_inicio;not null" json:"started_at"`
}

func (Subscription) TableName() string { return "suscripcion" }
