package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// Models lists every persisted model in dependency order.
var Models = []interface{}{
	&models.Country{},
	&models.Department{},
	&models.City{},
	&models.Address{},
	&models.Restaurant{},
	&models.Subscription{},
	&models.Table{},
	&models.Reservation{},
	&models.ReservationTable{},
	&models.Dish{},
	&models.Order{},
	&models.OrderLine{},
}

// Migrate brings the schema up to date and seeds reference locations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	return SeedLocations(db)
}

type seedDepartment struct {
	name   string
	cities []string
}

var seedCountries = map[string][]seedDepartment{
	"Colombia": {
		{name: "Antioquia", cities: []string{"Medellín", "Envigado"}},
		{name: "Cundinamarca", cities: []string{"Bogotá", "Chía"}},
		{name: "Valle del Cauca", cities: []string{"Cali"}},
	},
}

// SeedLocations inserts the default countries, departments and cities
// when the country table is empty.
func SeedLocations(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Country{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for countryName, departments := range seedCountries {
			country := models.Country{Name: countryName}
			if err := tx.Create(&country).Error; err != nil {
				return err
			}
			for _, d := range departments {
				dep := models.Department{Name: d.name, CountryID: country.ID}
				if err := tx.Omit("Country").Create(&dep).Error; err != nil {
					return err
				}
				for _, cityName := range d.cities {
					city := models.City{Name: cityName, DepartmentID: dep.ID}
					if err := tx.Omit("Department").Create(&city).Error; err != nil {
						return err
					}
				}
			}
			utils.InfoLogger.WithField("country", countryName).Info("seeded locations")
		}
		return nil
	})
}
