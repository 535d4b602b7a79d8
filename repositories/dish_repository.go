package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
)

type DishRepository interface {
	Create(ctx context.Context, d *models.Dish) error
	FindByID(ctx context.Context, id uint) (*models.Dish, error)
	FindAllByRestaurant(ctx context.Context, restaurantID uint, category string) ([]models.Dish, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	FindByIDsForUpdate(tx *gorm.DB, ids []uint) ([]models.Dish, error)
	AdjustStock(tx *gorm.DB, id uint, delta int) error
}

type dishRepository struct {
	db *gorm.DB
}

func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) Create(ctx context.Context, d *models.Dish) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *dishRepository) FindByID(ctx context.Context, id uint) (*models.Dish, error) {
	var d models.Dish
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *dishRepository) FindAllByRestaurant(ctx context.Context, restaurantID uint, category string) ([]models.Dish, error) {
	q := r.db.WithContext(ctx).Where("restaurante_id = ?", restaurantID)
	if category != "" {
		q = q.Where("categoria = ?", category)
	}
	var dishes []models.Dish
	err := q.Order("id").Find(&dishes).Error
	return dishes, err
}

func (r *dishRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Dish{}).Where("id = ?", id).Updates(fields).Error
}

// Delete refuses to remove a dish that still appears on order lines so
// order history keeps its names and totals.
func (r *dishRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	var lines int64
	if err := db.Model(&models.OrderLine{}).Where("platillo_id = ?", id).Count(&lines).Error; err != nil {
		return err
	}
	if lines > 0 {
		return ErrInUse
	}

	res := db.Delete(&models.Dish{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByIDsForUpdate locks the given dish rows for the rest of tx.
func (r *dishRepository) FindByIDsForUpdate(tx *gorm.DB, ids []uint) ([]models.Dish, error) {
	var dishes []models.Dish
	if err := forUpdate(tx).Where("id IN ?", ids).Order("id").Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

// AdjustStock adds delta to the stock column in a single statement.
func (r *dishRepository) AdjustStock(tx *gorm.DB, id uint, delta int) error {
	return tx.Model(&models.Dish{}).Where("id = ?", id).
		UpdateColumn("existencias", gorm.Expr("existencias + ?", delta)).Error
}
