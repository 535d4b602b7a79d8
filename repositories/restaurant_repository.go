package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
)

type RestaurantFilter struct {
	Category     string
	CityID       uint
	DepartmentID uint
	CountryID    uint
}

type RestaurantRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, r *models.Restaurant) error
	FindByID(ctx context.Context, id uint) (*models.Restaurant, error)
	FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Restaurant, error)
	FindByEmail(ctx context.Context, email string) (*models.Restaurant, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.Restaurant, error)
	FindAll(ctx context.Context, f RestaurantFilter) ([]models.Restaurant, error)
	Update(ctx context.Context, r *models.Restaurant, fields map[string]interface{}, address *models.Address) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	SetPassword(tx *gorm.DB, id uint, hash string) error
	UpdateState(ctx context.Context, id uint, state string) error
	LinkGoogleID(ctx context.Context, id uint, googleID string) error
	Delete(ctx context.Context, id uint) error
	CityExists(ctx context.Context, cityID uint) (bool, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) DB() *gorm.DB { return r.db }

func withLocation(db *gorm.DB) *gorm.DB {
	return db.Preload("Address.City.Department.Country")
}

// Create stores the address, the restaurant and its starter subscription
// atomically.
func (r *restaurantRepository) Create(ctx context.Context, rest *models.Restaurant) error {
	return RunInTx(ctx, r.db, func(tx *gorm.DB) error {
		if rest.Address != nil {
			if err := tx.Create(rest.Address).Error; err != nil {
				return err
			}
			rest.AddressID = &rest.Address.ID
		}
		if err := tx.Omit("Address").Create(rest).Error; err != nil {
			return err
		}
		return tx.Create(&models.Subscription{
			RestaurantID: rest.ID,
			Plan:         "BASICO",
			State:        models.RestaurantActive,
			StartedAt:    time.Now(),
		}).Error
	})
}

func (r *restaurantRepository) FindByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := withLocation(r.db.WithContext(ctx)).First(&rest, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rest, nil
}

func (r *restaurantRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := forUpdate(tx).First(&rest, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rest, nil
}

func (r *restaurantRepository) FindByEmail(ctx context.Context, email string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.db.WithContext(ctx).Where("correo = ?", email).First(&rest).Error; err != nil {
		return nil, translate(err)
	}
	return &rest, nil
}

func (r *restaurantRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&rest).Error; err != nil {
		return nil, translate(err)
	}
	return &rest, nil
}

func (r *restaurantRepository) FindAll(ctx context.Context, f RestaurantFilter) ([]models.Restaurant, error) {
	q := withLocation(r.db.WithContext(ctx)).Model(&models.Restaurant{})

	if f.Category != "" {
		q = q.Where("restaurante.categoria = ?", f.Category)
	}
	if f.CityID != 0 || f.DepartmentID != 0 || f.CountryID != 0 {
		q = q.Joins("JOIN direccion ON direccion.id = restaurante.direccion_id").
			Joins("JOIN ciudad ON ciudad.id = direccion.ciudad_id").
			Joins("JOIN departamento ON departamento.id = ciudad.departamento_id")
		if f.CityID != 0 {
			q = q.Where("ciudad.id = ?", f.CityID)
		}
		if f.DepartmentID != 0 {
			q = q.Where("departamento.id = ?", f.DepartmentID)
		}
		if f.CountryID != 0 {
			q = q.Where("departamento.pais_id = ?", f.CountryID)
		}
	}

	var list []models.Restaurant
	if err := q.Order("restaurante.id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update writes the given restaurant columns and, when address is set,
// replaces or creates the linked address in the same transaction.
func (r *restaurantRepository) Update(ctx context.Context, rest *models.Restaurant, fields map[string]interface{}, address *models.Address) error {
	return RunInTx(ctx, r.db, func(tx *gorm.DB) error {
		if address != nil {
			if rest.AddressID != nil {
				if err := tx.Model(&models.Address{}).Where("id = ?", *rest.AddressID).
					Updates(map[string]interface{}{"direccion": address.Street, "ciudad_id": address.CityID}).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Create(address).Error; err != nil {
					return err
				}
				fields["direccion_id"] = address.ID
			}
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&models.Restaurant{}).Where("id = ?", rest.ID).Updates(fields).Error
	})
}

func (r *restaurantRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.updateColumn(ctx, id, "contrasena", hash)
}

// SetPassword is UpdatePassword inside a caller's transaction.
func (r *restaurantRepository) SetPassword(tx *gorm.DB, id uint, hash string) error {
	return tx.Model(&models.Restaurant{}).Where("id = ?", id).Update("contrasena", hash).Error
}

func (r *restaurantRepository) UpdateState(ctx context.Context, id uint, state string) error {
	return r.updateColumn(ctx, id, "estado", state)
}

func (r *restaurantRepository) LinkGoogleID(ctx context.Context, id uint, googleID string) error {
	return r.updateColumn(ctx, id, "google_id", googleID)
}

func (r *restaurantRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Update(column, value).Error
}

// Delete removes the restaurant with its owned rows and address.
func (r *restaurantRepository) Delete(ctx context.Context, id uint) error {
	return RunInTx(ctx, r.db, func(tx *gorm.DB) error {
		var rest models.Restaurant
		if err := tx.First(&rest, id).Error; err != nil {
			return translate(err)
		}

		reservationIDs := tx.Model(&models.Reservation{}).Select("id").Where("restaurante_id = ?", id)
		if err := tx.Where("reserva_id IN (?)", reservationIDs).Delete(&models.ReservationTable{}).Error; err != nil {
			return err
		}
		dishIDs := tx.Model(&models.Dish{}).Select("id").Where("restaurante_id = ?", id)
		var orderIDs []uint
		if err := tx.Model(&models.OrderLine{}).Distinct("pedido_id").
			Where("platillo_id IN (?)", dishIDs).Pluck("pedido_id", &orderIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("platillo_id IN (?)", dishIDs).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			remaining := tx.Model(&models.OrderLine{}).Select("pedido_id")
			if err := tx.Where("id IN ? AND id NOT IN (?)", orderIDs, remaining).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}
		for _, owned := range []interface{}{&models.Reservation{}, &models.Table{}, &models.Dish{}, &models.Subscription{}} {
			if err := tx.Where("restaurante_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Restaurant{}, id).Error; err != nil {
			return err
		}
		if rest.AddressID != nil {
			return tx.Delete(&models.Address{}, *rest.AddressID).Error
		}
		return nil
	})
}

func (r *restaurantRepository) CityExists(ctx context.Context, cityID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.City{}).Where("id = ?", cityID).Count(&n).Error
	return n > 0, err
}
