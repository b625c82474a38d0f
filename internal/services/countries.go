package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/maulerrr/jinaq-backend/internal/clients/redis"
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/repos"
)

const (
	countriesCacheKey = "catalog:countries"
	catalogCacheTTL   = 10 * time.Minute
)

type CountryService interface {
	List(ctx context.Context) ([]*repos.CountryWithCount, error)
	// Warm primes the cache at startup so the first request hits memory.
	Warm(ctx context.Context) error
}

type countryService struct {
	log         *logger.Logger
	countryRepo repos.CountryRepo
	cache       redis.Cache
}

func NewCountryService(log *logger.Logger, countryRepo repos.CountryRepo, cache redis.Cache) CountryService {
	return &countryService{
		log:         log.With("service", "CountryService"),
		countryRepo: countryRepo,
		cache:       cache,
	}
}

func (cs *countryService) List(ctx context.Context) ([]*repos.CountryWithCount, error) {
	if cs.cache != nil {
		if raw, ok := cs.cache.Get(ctx, countriesCacheKey); ok {
			var cached []*repos.CountryWithCount
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			cs.cache.Del(ctx, countriesCacheKey)
		}
	}

	countries, err := cs.countryRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	if cs.cache != nil {
		if raw, err := json.Marshal(countries); err == nil {
			cs.cache.Set(ctx, countriesCacheKey, raw, catalogCacheTTL)
		}
	}
	return countries, nil
}

func (cs *countryService) Warm(ctx context.Context) error {
	_, err := cs.List(ctx)
	return err
}
