package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type InstitutionAnalysisRepo interface {
	// Create persists the analysis row with all of its entries in one go.
	Create(ctx context.Context, tx *gorm.DB, analysis *types.InstitutionAnalysis) error
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.InstitutionAnalysis, error)
	GetEntry(ctx context.Context, tx *gorm.DB, analysisID, institutionID uuid.UUID) (*types.InstitutionAnalysisEntry, error)
	// AddEntryDetail appends the deep-phase attributes and plan steps to an
	// existing entry. Both collections are written in the caller's
	// transaction so the entry never ends up half-detailed.
	AddEntryDetail(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, attributes []types.InstitutionAttribute, steps []types.InstitutionPlanStep) error
	HasEntryDetail(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (bool, error)
}

type institutionAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstitutionAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) InstitutionAnalysisRepo {
	return &institutionAnalysisRepo{db: db, log: baseLog.With("repo", "InstitutionAnalysisRepo")}
}

func (r *institutionAnalysisRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *institutionAnalysisRepo) Create(ctx context.Context, tx *gorm.DB, analysis *types.InstitutionAnalysis) error {
	return r.conn(tx).WithContext(ctx).Create(analysis).Error
}

func (r *institutionAnalysisRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.InstitutionAnalysis, error) {
	var result types.InstitutionAnalysis
	err := r.conn(tx).WithContext(ctx).
		Preload("Entries", func(q *gorm.DB) *gorm.DB {
			return q.Order("chance_percentage DESC")
		}).
		Preload("Entries.Institution").
		Preload("Entries.Institution.Country").
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

func (r *institutionAnalysisRepo) GetEntry(ctx context.Context, tx *gorm.DB, analysisID, institutionID uuid.UUID) (*types.InstitutionAnalysisEntry, error) {
	var result types.InstitutionAnalysisEntry
	err := r.conn(tx).WithContext(ctx).
		Preload("Institution").
		Preload("Institution.Country").
		Preload("Attributes").
		Preload("PlanSteps", func(q *gorm.DB) *gorm.DB {
			return q.Order(`"order" ASC`)
		}).
		Where("analysis_id = ? AND institution_id = ?", analysisID, institutionID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *institutionAnalysisRepo) AddEntryDetail(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, attributes []types.InstitutionAttribute, steps []types.InstitutionPlanStep) error {
	conn := r.conn(tx).WithContext(ctx)
	for i := range attributes {
		attributes[i].EntryID = entryID
	}
	for i := range steps {
		steps[i].EntryID = entryID
	}
	if len(attributes) > 0 {
		if err := conn.Create(&attributes).Error; err != nil {
			return err
		}
	}
	if len(steps) > 0 {
		if err := conn.Create(&steps).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *institutionAnalysisRepo) HasEntryDetail(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.InstitutionAttribute{}).
		Where("entry_id = ?", entryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
