package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

// CountryWithCount is the catalog row shape: a country plus how many
// institutions it holds, computed in one query.
type CountryWithCount struct {
	types.Country
	InstitutionCount int64 `json:"institution_count"`
}

type CountryRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*CountryWithCount, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, countryIDs []uuid.UUID) ([]*types.Country, error)
}

type countryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCountryRepo(db *gorm.DB, baseLog *logger.Logger) CountryRepo {
	return &countryRepo{db: db, log: baseLog.With("repo", "CountryRepo")}
}

func (r *countryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *countryRepo) List(ctx context.Context, tx *gorm.DB) ([]*CountryWithCount, error) {
	var results []*CountryWithCount
	err := r.conn(tx).WithContext(ctx).
		Model(&types.Country{}).
		Select(`country.*, COUNT(institution.id) AS institution_count`).
		Joins(`LEFT JOIN institution ON institution.country_id = country.id`).
		Group("country.id").
		Order("country.name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *countryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, countryIDs []uuid.UUID) ([]*types.Country, error) {
	var results []*types.Country
	if len(countryIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", countryIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
