package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type ProfessionRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Profession, error)
	List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Profession, int64, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, professionIDs []uuid.UUID) ([]*types.Profession, error)
}

type professionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfessionRepo(db *gorm.DB, baseLog *logger.Logger) ProfessionRepo {
	return &professionRepo{db: db, log: baseLog.With("repo", "ProfessionRepo")}
}

func (r *professionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *professionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Profession, error) {
	var results []*types.Profession
	if err := r.conn(tx).WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *professionRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Profession, int64, error) {
	var total int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Profession{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.Profession
	if err := r.conn(tx).WithContext(ctx).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *professionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, professionIDs []uuid.UUID) ([]*types.Profession, error) {
	var results []*types.Profession
	if len(professionIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", professionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
