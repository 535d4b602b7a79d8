package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type CountryService interface {
	List(ctx context.Context) ([]models.Country, error)
	Create(ctx context.Context, req dto.CountryRequest) (*models.Country, error)
}

type countryService struct {
	countries repositories.CountryRepository
}

func NewCountryService(countries repositories.CountryRepository) CountryService {
	return &countryService{countries: countries}
}

func (s *countryService) List(ctx context.Context) ([]models.Country, error) {
	return s.countries.FindAll(ctx)
}

func (s *countryService) Create(ctx context.Context, req dto.CountryRequest) (*models.Country, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.countries.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.NewConflictError("country already exists")
	}

	country := &models.Country{Name: req.Name}
	if err := s.countries.Create(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}
