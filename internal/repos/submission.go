package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type SubmissionRepo interface {
	// GetByUserAndTest returns nil when no submission row exists. With
	// forUpdate set it takes a row lock so concurrent answer submissions for
	// the same (user, test) serialize on the database.
	GetByUserAndTest(ctx context.Context, tx *gorm.DB, userID, testID uuid.UUID, forUpdate bool) (*types.TestSubmission, error)
	Create(ctx context.Context, tx *gorm.DB, submission *types.TestSubmission) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TestSubmission, error)
	GetWithAnswers(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.TestSubmission, error)
	CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.SubmittedAnswer) error
	CountDistinctAnswered(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, status string) error
	Complete(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, summary string, keyFactors datatypes.JSON) error
	CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *submissionRepo) GetByUserAndTest(ctx context.Context, tx *gorm.DB, userID, testID uuid.UUID, forUpdate bool) (*types.TestSubmission, error) {
	q := r.conn(tx).WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var result types.TestSubmission
	err := q.
		Where("user_id = ? AND test_id = ?", userID, testID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.TestSubmission) error {
	return r.conn(tx).WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TestSubmission, error) {
	var results []*types.TestSubmission
	if err := r.conn(tx).WithContext(ctx).
		Preload("Test").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) GetWithAnswers(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.TestSubmission, error) {
	var result types.TestSubmission
	err := r.conn(tx).WithContext(ctx).
		Preload("Test").
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.Answer").
		Where("id = ?", submissionID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *submissionRepo) CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.SubmittedAnswer) error {
	return r.conn(tx).WithContext(ctx).Create(answer).Error
}

func (r *submissionRepo) CountDistinctAnswered(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.SubmittedAnswer{}).
		Where("submission_id = ?", submissionID).
		Distinct("question_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *submissionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, status string) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.TestSubmission{}).
		Where("id = ?", submissionID).
		Update("status", status).Error
}

func (r *submissionRepo) Complete(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, summary string, keyFactors datatypes.JSON) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.TestSubmission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"status":               types.SubmissionCompleted,
			"analysis_summary":     summary,
			"analysis_key_factors": keyFactors,
		}).Error
}

func (r *submissionRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.TestSubmission{}).
		Where("user_id = ? AND status = ?", userID, types.SubmissionCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
