package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type DishService interface {
	Create(ctx context.Context, restaurantID uint, req dto.DishRequest) (*models.Dish, error)
	GetByID(ctx context.Context, id uint) (*models.Dish, error)
	ListByRestaurant(ctx context.Context, restaurantID uint, category string) ([]models.Dish, error)
	Update(ctx context.Context, restaurantID, id uint, req dto.DishUpdate) (*models.Dish, error)
	Delete(ctx context.Context, restaurantID, id uint) error
	SetImage(ctx context.Context, restaurantID, id uint, file *multipart.FileHeader) (*models.Dish, error)
}

type dishService struct {
	dishes      repositories.DishRepository
	restaurants repositories.RestaurantRepository
	images      ImageUploader
}

func NewDishService(dishes repositories.DishRepository, restaurants repositories.RestaurantRepository, images ImageUploader) DishService {
	return &dishService{dishes: dishes, restaurants: restaurants, images: images}
}

func (s *dishService) Create(ctx context.Context, restaurantID uint, req dto.DishRequest) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		return nil, mapRepoErr(err, "restaurant not found")
	}

	dish := &models.Dish{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		Category:     req.Category,
		RestaurantID: restaurantID,
	}
	if err := s.dishes.Create(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

func (s *dishService) GetByID(ctx context.Context, id uint) (*models.Dish, error) {
	dish, err := s.dishes.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "dish not found")
	}
	return dish, nil
}

func (s *dishService) ListByRestaurant(ctx context.Context, restaurantID uint, category string) ([]models.Dish, error) {
	if category != "" && !models.IsDishCategory(category) {
		return nil, utils.NewValidationError("unknown dish category: " + category)
	}
	return s.dishes.FindAllByRestaurant(ctx, restaurantID, category)
}

// owned loads a dish and checks it belongs to restaurantID.
func (s *dishService) owned(ctx context.Context, restaurantID, id uint) (*models.Dish, error) {
	dish, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dish.RestaurantID != restaurantID {
		return nil, utils.NewForbiddenError("dish belongs to another restaurant")
	}
	return dish, nil
}

func (s *dishService) Update(ctx context.Context, restaurantID, id uint, req dto.DishUpdate) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, restaurantID, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["nombre"] = *req.Name
	}
	if req.Description != nil {
		fields["descripcion"] = *req.Description
	}
	if req.Price != nil {
		fields["precio"] = *req.Price
	}
	if req.Stock != nil {
		fields["existencias"] = *req.Stock
	}
	if req.Category != nil {
		fields["categoria"] = *req.Category
	}
	if err := s.dishes.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *dishService) Delete(ctx context.Context, restaurantID, id uint) error {
	if _, err := s.owned(ctx, restaurantID, id); err != nil {
		return err
	}
	err := s.dishes.Delete(ctx, id)
	if errors.Is(err, repositories.ErrInUse) {
		return utils.NewConflictError("dish has orders and cannot be deleted")
	}
	return mapRepoErr(err, "dish not found")
}

func (s *dishService) SetImage(ctx context.Context, restaurantID, id uint, file *multipart.FileHeader) (*models.Dish, error) {
	dish, err := s.owned(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	imageURL, err := s.images.Upload(ctx, "dishes", file)
	if err != nil {
		return nil, err
	}
	if err := s.dishes.Update(ctx, id, map[string]interface{}{"imagen_url": imageURL}); err != nil {
		return nil, err
	}
	dish.ImageURL = imageURL
	return dish, nil
}
