package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type PersonalityAnalysisRepo interface {
	// Create persists the analysis row together with its MBTI result,
	// profession matches, majors and attributes via nested association
	// creates. Callers run it inside a transaction.
	Create(ctx context.Context, tx *gorm.DB, analysis *types.PersonalityAnalysis) error
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PersonalityAnalysis, error)
}

type personalityAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonalityAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) PersonalityAnalysisRepo {
	return &personalityAnalysisRepo{db: db, log: baseLog.With("repo", "PersonalityAnalysisRepo")}
}

func (r *personalityAnalysisRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *personalityAnalysisRepo) Create(ctx context.Context, tx *gorm.DB, analysis *types.PersonalityAnalysis) error {
	return r.conn(tx).WithContext(ctx).Create(analysis).Error
}

func (r *personalityAnalysisRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PersonalityAnalysis, error) {
	var result types.PersonalityAnalysis
	err := r.conn(tx).WithContext(ctx).
		Preload("MBTI").
		Preload("Professions").
		Preload("Professions.Profession").
		Preload("Majors").
		Preload("Attributes").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
