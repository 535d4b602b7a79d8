package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/models"
)

type ReservationRepository interface {
	DB() *gorm.DB
	Create(tx *gorm.DB, r *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Reservation, error)
	FindAllByRestaurant(ctx context.Context, restaurantID uint) ([]models.Reservation, error)
	SumPartySize(tx *gorm.DB, restaurantID uint, date, from, to string, statuses []string) (int, error)
	AssignTable(tx *gorm.DB, reservationID, tableID uint) error
	DeleteTableLinks(tx *gorm.DB, reservationID uint) error
	UpdateStatus(tx *gorm.DB, reservationID uint, status string) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) DB() *gorm.DB { return r.db }

// withTableLabel selects reservations plus the label of the assigned
// table, if any.
func withTableLabel(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Reservation{}).
		Select("reservas.*, mesa.etiqueta AS mesa_etiqueta").
		Joins("LEFT JOIN mesa_has_reservas ON mesa_has_reservas.reserva_id = reservas.id").
		Joins("LEFT JOIN mesa ON mesa.id = mesa_has_reservas.mesa_id")
}

func (r *reservationRepository) Create(tx *gorm.DB, res *models.Reservation) error {
	return tx.Omit("TableLabel").Create(res).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := withTableLabel(r.db.WithContext(ctx)).Where("reservas.id = ?", id).Take(&res).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *reservationRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := forUpdate(tx).First(&res, id).Error; err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *reservationRepository) FindAllByRestaurant(ctx context.Context, restaurantID uint) ([]models.Reservation, error) {
	var list []models.Reservation
	err := withTableLabel(r.db.WithContext(ctx)).
		Where("reservas.restaurante_id = ?", restaurantID).
		Order("reservas.fecha, reservas.hora, reservas.id").
		Find(&list).Error
	return list, err
}

// SumPartySize adds up party sizes for a restaurant on date with a time
// in [from, to) and one of the given statuses.
func (r *reservationRepository) SumPartySize(tx *gorm.DB, restaurantID uint, date, from, to string, statuses []string) (int, error) {
	var total int
	err := tx.Model(&models.Reservation{}).
		Select("COALESCE(SUM(cantidad), 0)").
		Where("restaurante_id = ? AND fecha = ? AND hora >= ? AND hora < ? AND estado IN ?",
			restaurantID, date, from, to, statuses).
		Scan(&total).Error
	return total, err
}

func (r *reservationRepository) AssignTable(tx *gorm.DB, reservationID, tableID uint) error {
	return tx.Create(&models.ReservationTable{TableID: tableID, ReservationID: reservationID}).Error
}

func (r *reservationRepository) DeleteTableLinks(tx *gorm.DB, reservationID uint) error {
	return tx.Where("reserva_id = ?", reservationID).Delete(&models.ReservationTable{}).Error
}

func (r *reservationRepository) UpdateStatus(tx *gorm.DB, reservationID uint, status string) error {
	return tx.Model(&models.Reservation{}).Where("id = ?", reservationID).Update("estado", status).Error
}
