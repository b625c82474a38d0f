package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maulerrr/jinaq-backend/internal/clients/redis"
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/repos"
	"github.com/maulerrr/jinaq-backend/internal/types"
	"github.com/maulerrr/jinaq-backend/internal/utils"
)

const professionsCacheKey = "catalog:professions"

type ProfessionService interface {
	List(ctx context.Context, page utils.PageRequest) (*utils.Paginated[*types.Profession], error)
	// Warm primes the full-catalog cache used by unpaginated consumers.
	Warm(ctx context.Context) error
}

type professionService struct {
	log            *logger.Logger
	professionRepo repos.ProfessionRepo
	cache          redis.Cache
}

func NewProfessionService(log *logger.Logger, professionRepo repos.ProfessionRepo, cache redis.Cache) ProfessionService {
	return &professionService{
		log:            log.With("service", "ProfessionService"),
		professionRepo: professionRepo,
		cache:          cache,
	}
}

func (ps *professionService) List(ctx context.Context, page utils.PageRequest) (*utils.Paginated[*types.Profession], error) {
	page = page.Normalize()
	professions, total, err := ps.professionRepo.List(ctx, nil, page.Offset(), page.Limit())
	if err != nil {
		return nil, fmt.Errorf("list professions: %w", err)
	}
	out := utils.NewPaginated(professions, page, total)
	return &out, nil
}

func (ps *professionService) Warm(ctx context.Context) error {
	if ps.cache == nil {
		return nil
	}
	professions, err := ps.professionRepo.ListAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("warm profession catalog: %w", err)
	}
	raw, err := json.Marshal(professions)
	if err != nil {
		return fmt.Errorf("serialize profession catalog: %w", err)
	}
	ps.cache.Set(ctx, professionsCacheKey, raw, catalogCacheTTL)
	return nil
}
