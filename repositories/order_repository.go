package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
)

type OrderRepository interface {
	DB() *gorm.DB
	CreateHeader(tx *gorm.DB, o *models.Order) error
	CreateLines(tx *gorm.DB, lines []models.OrderLine) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindAllByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error)
	FindLinesForUpdate(tx *gorm.DB, orderID uint) ([]models.OrderLine, error)
	UpdateLineStatus(tx *gorm.DB, orderID, dishID uint, status string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) DB() *gorm.DB { return r.db }

func (r *orderRepository) CreateHeader(tx *gorm.DB, o *models.Order) error {
	return tx.Omit("Lines").Create(o).Error
}

func (r *orderRepository) CreateLines(tx *gorm.DB, lines []models.OrderLine) error {
	return tx.Omit("Dish").Create(&lines).Error
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("platillo_id")
	}).Preload("Lines.Dish")
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := preloadLines(r.db.WithContext(ctx)).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// FindAllByRestaurant returns orders having at least one line for a dish
// of the restaurant. Only those lines are loaded.
func (r *orderRepository) FindAllByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	db := r.db.WithContext(ctx)
	dishIDs := db.Model(&models.Dish{}).Select("id").Where("restaurante_id = ?", restaurantID)
	orderIDs := db.Model(&models.OrderLine{}).Select("pedido_id").Where("platillo_id IN (?)", dishIDs)

	var orders []models.Order
	err := db.Preload("Lines", func(q *gorm.DB) *gorm.DB {
		return q.Where("platillo_id IN (?)", dishIDs).Order("platillo_id")
	}).Preload("Lines.Dish").
		Where("id IN (?)", orderIDs).
		Order("fecha DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) FindLinesForUpdate(tx *gorm.DB, orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := forUpdate(tx).Where("pedido_id = ?", orderID).Order("platillo_id").Find(&lines).Error
	return lines, err
}

func (r *orderRepository) UpdateLineStatus(tx *gorm.DB, orderID, dishID uint, status string) error {
	return tx.Model(&models.OrderLine{}).
		Where("pedido_id = ? AND platillo_id = ?", orderID, dishID).
		Update("estado", status).Error
}
