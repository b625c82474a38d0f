package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

// InstitutionFilter narrows the catalog listing. Zero values mean "no filter".
type InstitutionFilter struct {
	CountryID     *uuid.UUID
	CityID        *uuid.UUID
	FinancingType string
	Type          string
	HasDorm       *bool
	Search        string
}

type InstitutionRepo interface {
	List(ctx context.Context, tx *gorm.DB, filter InstitutionFilter, offset, limit int) ([]*types.Institution, int64, error)
	ListByCountry(ctx context.Context, tx *gorm.DB, countryID uuid.UUID, limit int) ([]*types.Institution, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]*types.Institution, error)
}

type institutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstitutionRepo(db *gorm.DB, baseLog *logger.Logger) InstitutionRepo {
	return &institutionRepo{db: db, log: baseLog.With("repo", "InstitutionRepo")}
}

func (r *institutionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func applyInstitutionFilter(q *gorm.DB, filter InstitutionFilter) *gorm.DB {
	if filter.CountryID != nil {
		q = q.Where("country_id = ?", *filter.CountryID)
	}
	if filter.CityID != nil {
		q = q.Where("city_id = ?", *filter.CityID)
	}
	if filter.FinancingType != "" {
		q = q.Where("financing_type = ?", filter.FinancingType)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.HasDorm != nil {
		q = q.Where("has_dorm = ?", *filter.HasDorm)
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR short_name ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return q
}

func (r *institutionRepo) List(ctx context.Context, tx *gorm.DB, filter InstitutionFilter, offset, limit int) ([]*types.Institution, int64, error) {
	base := applyInstitutionFilter(r.conn(tx).WithContext(ctx).Model(&types.Institution{}), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Institution
	if err := base.Session(&gorm.Session{}).
		Preload("Country").
		Preload("City").
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *institutionRepo) ListByCountry(ctx context.Context, tx *gorm.DB, countryID uuid.UUID, limit int) ([]*types.Institution, error) {
	var results []*types.Institution
	q := r.conn(tx).WithContext(ctx).
		Where("country_id = ?", countryID).
		Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *institutionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]*types.Institution, error) {
	var results []*types.Institution
	if len(institutionIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Preload("Country").
		Preload("City").
		Where("id IN ?", institutionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
