package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/repos"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type CityService interface {
	ListByCountry(ctx context.Context, countryID uuid.UUID) ([]*types.City, error)
}

type cityService struct {
	log         *logger.Logger
	cityRepo    repos.CityRepo
	countryRepo repos.CountryRepo
}

func NewCityService(log *logger.Logger, cityRepo repos.CityRepo, countryRepo repos.CountryRepo) CityService {
	return &cityService{
		log:         log.With("service", "CityService"),
		cityRepo:    cityRepo,
		countryRepo: countryRepo,
	}
}

func (cs *cityService) ListByCountry(ctx context.Context, countryID uuid.UUID) ([]*types.City, error) {
	countries, err := cs.countryRepo.GetByIDs(ctx, nil, []uuid.UUID{countryID})
	if err != nil {
		return nil, fmt.Errorf("load country: %w", err)
	}
	if len(countries) == 0 {
		return nil, ErrNotFound
	}
	cities, err := cs.cityRepo.ListByCountry(ctx, nil, countryID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}
