package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
)

func TestMigrateSeedsOnce(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_seed?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var countries, cities int64
	db.Model(&models.Country{}).Count(&countries)
	db.Model(&models.City{}).Count(&cities)
	assert.Equal(t, int64(1), countries)
	assert.Equal(t, int64(5), cities)

	var city models.City
	require.NoError(t, db.Preload("Department.Country").Where("nombre = ?", "Cali").First(&city).Error)
	assert.Equal(t, "Valle del Cauca", city.Department.Name)
	assert.Equal(t, "Colombia", city.Department.Country.Name)
}
