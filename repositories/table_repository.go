package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
)

type TableRepository interface {
	Create(ctx context.Context, t *models.Table) error
	FindByID(ctx context.Context, id uint) (*models.Table, error)
	FindAllByRestaurant(ctx context.Context, restaurantID uint) ([]models.Table, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, t *models.Table) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepository) FindByID(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *tableRepository) FindAllByRestaurant(ctx context.Context, restaurantID uint) ([]models.Table, error) {
	var tables []models.Table
	err := r.db.WithContext(ctx).Where("restaurante_id = ?", restaurantID).Order("id").Find(&tables).Error
	return tables, err
}

func (r *tableRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(fields).Error
}

// Delete drops the table together with its reservation links.
func (r *tableRepository) Delete(ctx context.Context, id uint) error {
	return RunInTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("mesa_id = ?", id).Delete(&models.ReservationTable{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Table{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
