package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type ReservationService interface {
	CheckCapacity(ctx context.Context, restaurantID uint, date string, hour int) (*dto.CapacitySummary, error)
	Create(ctx context.Context, req dto.ReservationRequest) (*dto.ReservationCreated, error)
	AssignTable(ctx context.Context, reservationID, tableID uint) (*models.Reservation, error)
	Cancel(ctx context.Context, reservationID uint) error
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Reservation, error)
}

type reservationService struct {
	reservations repositories.ReservationRepository
	restaurants  repositories.RestaurantRepository
	tables       repositories.TableRepository
	mailer       Mailer
	events       EventPublisher
}

func NewReservationService(
	reservations repositories.ReservationRepository,
	restaurants repositories.RestaurantRepository,
	tables repositories.TableRepository,
	mailer Mailer,
	events EventPublisher,
) ReservationService {
	return &reservationService{
		reservations: reservations,
		restaurants:  restaurants,
		tables:       tables,
		mailer:       mailer,
		events:       publisherOrNoop(events),
	}
}

// hourBucket returns the [from, to) clock bounds of the one-hour slot
// starting at hour.
func hourBucket(hour int) (string, string) {
	return fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:00", hour+1)
}

// usage sums active party sizes in the slot. It must run on the same
// handle that holds the restaurant lock when called from a write path.
func (s *reservationService) usage(db *gorm.DB, restaurantID uint, date string, hour int) (int, error) {
	from, to := hourBucket(hour)
	return s.reservations.SumPartySize(db, restaurantID, date, from, to, models.ActiveReservationStates)
}

func summary(rest *models.Restaurant, date string, hour, reserved int) *dto.CapacitySummary {
	available := rest.ReservationCapacity - reserved
	if available < 0 {
		available = 0
	}
	return &dto.CapacitySummary{
		RestaurantID: rest.ID,
		Date:         date,
		Hour:         hour,
		Capacity:     rest.ReservationCapacity,
		Reserved:     reserved,
		Available:    available,
	}
}

func (s *reservationService) CheckCapacity(ctx context.Context, restaurantID uint, date string, hour int) (*dto.CapacitySummary, error) {
	q := dto.CapacityQuery{Date: date, Hour: &hour}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rest, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, mapRepoErr(err, "restaurant not found")
	}

	reserved, err := s.usage(s.reservations.DB().WithContext(ctx), restaurantID, date, hour)
	if err != nil {
		return nil, err
	}
	return summary(rest, date, hour, reserved), nil
}

// Create books a slot. The restaurant row is locked for the duration of
// the transaction so concurrent bookings for it are serialized between
// the capacity read and the insert.
func (s *reservationService) Create(ctx context.Context, req dto.ReservationRequest) (*dto.ReservationCreated, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hour, err := clockHour(req.Time)
	if err != nil {
		return nil, err
	}

	var (
		result *dto.ReservationCreated
		rest   *models.Restaurant
	)
	err = repositories.RunInTx(ctx, s.reservations.DB(), func(tx *gorm.DB) error {
		rest, err = s.restaurants.FindByIDForUpdate(tx, req.RestaurantID)
		if err != nil {
			return mapRepoErr(err, "restaurant not found")
		}
		if rest.State == models.RestaurantInactive {
			return utils.NewValidationError("restaurant is not accepting reservations")
		}

		used, err := s.usage(tx, rest.ID, req.Date, hour)
		if err != nil {
			return err
		}
		if used+req.PartySize > rest.ReservationCapacity {
			return utils.NewValidationError(fmt.Sprintf(
				"capacity exceeded: %d of %d seats available for %s %02d:00",
				max(rest.ReservationCapacity-used, 0), rest.ReservationCapacity, req.Date, hour))
		}

		res := &models.Reservation{
			Date:         req.Date,
			Time:         req.Time,
			PartySize:    req.PartySize,
			Status:       models.ReservationPending,
			Name:         req.Name,
			Phone:        req.Phone,
			Email:        req.Email,
			DocumentID:   req.DocumentID,
			RestaurantID: rest.ID,
		}
		if err := s.reservations.Create(tx, res); err != nil {
			return err
		}

		result = &dto.ReservationCreated{
			Reservation: res,
			Capacity:    *summary(rest, req.Date, hour, used+req.PartySize),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": result.Reservation.ID,
		"restaurant_id":  rest.ID,
		"slot":           fmt.Sprintf("%s %s", req.Date, req.Time),
	}).Info("reservation created")

	s.events.Publish(rest.ID, kds.EventReservationCreated, result.Reservation)
	if req.Email != "" && s.mailer != nil {
		body := reservationEmail(req.Name, rest.Name, req.Date, req.Time, req.PartySize)
		if err := s.mailer.Send(req.Email, "Reserva registrada", body); err != nil {
			utils.ErrorLogger.Printf("Error sending reservation email: %v", err)
		}
	}
	return result, nil
}

func (s *reservationService) AssignTable(ctx context.Context, reservationID, tableID uint) (*models.Reservation, error) {
	if _, err := s.reservations.FindByID(ctx, reservationID); err != nil {
		return nil, mapRepoErr(err, "reservation not found")
	}
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return nil, mapRepoErr(err, "table not found")
	}

	err = repositories.RunInTx(ctx, s.reservations.DB(), func(tx *gorm.DB) error {
		res, err := s.reservations.FindByIDForUpdate(tx, reservationID)
		if err != nil {
			return mapRepoErr(err, "reservation not found")
		}
		if table.RestaurantID != res.RestaurantID {
			return utils.NewValidationError("table belongs to a different restaurant")
		}
		if res.Status == models.ReservationCancelled {
			return utils.NewValidationError("reservation is cancelled")
		}
		if err := s.reservations.DeleteTableLinks(tx, reservationID); err != nil {
			return err
		}
		if err := s.reservations.AssignTable(tx, reservationID, tableID); err != nil {
			return err
		}
		return s.reservations.UpdateStatus(tx, reservationID, models.ReservationConfirmed)
	})
	if err != nil {
		return nil, err
	}

	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, mapRepoErr(err, "reservation not found")
	}
	s.events.Publish(res.RestaurantID, kds.EventReservationUpdated, res)
	return res, nil
}

func (s *reservationService) Cancel(ctx context.Context, reservationID uint) error {
	var restaurantID uint
	err := repositories.RunInTx(ctx, s.reservations.DB(), func(tx *gorm.DB) error {
		res, err := s.reservations.FindByIDForUpdate(tx, reservationID)
		if err != nil {
			return mapRepoErr(err, "reservation not found")
		}
		if res.Status == models.ReservationCancelled {
			return utils.NewConflictError("reservation is already cancelled")
		}
		restaurantID = res.RestaurantID

		if err := s.reservations.DeleteTableLinks(tx, reservationID); err != nil {
			return err
		}
		return s.reservations.UpdateStatus(tx, reservationID, models.ReservationCancelled)
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.WithField("reservation_id", reservationID).Info("reservation cancelled")
	s.events.Publish(restaurantID, kds.EventReservationUpdated, map[string]interface{}{
		"id":     reservationID,
		"status": models.ReservationCancelled,
	})
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	res, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "reservation not found")
	}
	return res, nil
}

func (s *reservationService) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Reservation, error) {
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		return nil, mapRepoErr(err, "restaurant not found")
	}
	return s.reservations.FindAllByRestaurant(ctx, restaurantID)
}

func clockHour(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, utils.NewValidationError("invalid time: " + clock)
	}
	return t.Hour(), nil
}
