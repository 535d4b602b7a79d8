package models

type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre;type:varchar(100);not null;uniqueIndex" json:"name"`
}

func (Country) TableName() string { return "pais" }

type Department struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"column:nombre;type:varchar(100);not null" json:"name"`
	CountryID uint    `gorm:"column:pais_id;not null;index" json:"country_id"`
	Country   Country `gorm:"foreignKey:CountryID" json:"country"`
}

func (Department) TableName() string { return "departamento" }

type City struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"column:nombre;type:varchar(100);not null" json:"name"`
	DepartmentID uint       `gorm:"column:departamento_id;not null;index" json:"department_id"`
	Department   Department `gorm:"foreignKey:DepartmentID" json:"department"`
}

func (City) TableName() string { return "ciudad" }

type Address struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Street string `gorm:"column:direccion;type:varchar(255);not null" json:"street"`
	CityID uint   `gorm:"column:ciudad_id;not null;index" json:"city_id"`
	City   *City  `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func (Address) TableName() string { return "direccion" }
