package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
)

type CountryRepository interface {
	FindAll(ctx context.Context) ([]models.Country, error)
	Create(ctx context.Context, c *models.Country) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type countryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) FindAll(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	err := r.db.WithContext(ctx).Order("nombre").Find(&countries).Error
	return countries, err
}

func (r *countryRepository) Create(ctx context.Context, c *models.Country) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *countryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Country{}).Where("nombre = ?", name).Count(&n).Error
	return n > 0, err
}
