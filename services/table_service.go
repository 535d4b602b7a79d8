package services

import (
	"context"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type TableService interface {
	Create(ctx context.Context, restaurantID uint, req dto.TableRequest) (*models.Table, error)
	GetByID(ctx context.Context, restaurantID, id uint) (*models.Table, error)
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Table, error)
	Update(ctx context.Context, restaurantID, id uint, req dto.TableUpdate) (*models.Table, error)
	Delete(ctx context.Context, restaurantID, id uint) error
}

type tableService struct {
	tables repositories.TableRepository
}

func NewTableService(tables repositories.TableRepository) TableService {
	return &tableService{tables: tables}
}

func (s *tableService) Create(ctx context.Context, restaurantID uint, req dto.TableRequest) (*models.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	table := &models.Table{Label: req.Label, Capacity: req.Capacity, RestaurantID: restaurantID}
	if err := s.tables.Create(ctx, table); err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("New table created: %s (restaurant=%d)", table.Label, restaurantID)
	return table, nil
}

func (s *tableService) GetByID(ctx context.Context, restaurantID, id uint) (*models.Table, error) {
	table, err := s.tables.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "table not found")
	}
	if table.RestaurantID != restaurantID {
		return nil, utils.NewForbiddenError("table belongs to another restaurant")
	}
	return table, nil
}

func (s *tableService) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Table, error) {
	return s.tables.FindAllByRestaurant(ctx, restaurantID)
}

func (s *tableService) Update(ctx context.Context, restaurantID, id uint, req dto.TableUpdate) (*models.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, restaurantID, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Label != nil {
		fields["etiqueta"] = *req.Label
	}
	if req.Capacity != nil {
		fields["capacidad"] = *req.Capacity
	}
	if err := s.tables.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, restaurantID, id)
}

func (s *tableService) Delete(ctx context.Context, restaurantID, id uint) error {
	if _, err := s.GetByID(ctx, restaurantID, id); err != nil {
		return err
	}
	if err := s.tables.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "table not found")
	}
	utils.InfoLogger.Printf("Table %d deleted", id)
	return nil
}
