package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type CityRepo interface {
	ListByCountry(ctx context.Context, tx *gorm.DB, countryID uuid.UUID) ([]*types.City, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, cityIDs []uuid.UUID) ([]*types.City, error)
}

type cityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCityRepo(db *gorm.DB, baseLog *logger.Logger) CityRepo {
	return &cityRepo{db: db, log: baseLog.With("repo", "CityRepo")}
}

func (r *cityRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *cityRepo) ListByCountry(ctx context.Context, tx *gorm.DB, countryID uuid.UUID) ([]*types.City, error) {
	var results []*types.City
	if err := r.conn(tx).WithContext(ctx).
		Where("country_id = ?", countryID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, cityIDs []uuid.UUID) ([]*types.City, error) {
	var results []*types.City
	if len(cityIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", cityIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
