package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type TestRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.Test, error)
	GetByID(ctx context.Context, tx *gorm.DB, testID uuid.UUID) (*types.Test, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountQuestions(ctx context.Context, tx *gorm.DB, testID uuid.UUID) (int64, error)
	GetQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Question, error)
	GetNextQuestion(ctx context.Context, tx *gorm.DB, testID uuid.UUID, afterOrder int) (*types.Question, error)
}

type testRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestRepo(db *gorm.DB, baseLog *logger.Logger) TestRepo {
	return &testRepo{db: db, log: baseLog.With("repo", "TestRepo")}
}

func (r *testRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *testRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Test, error) {
	var results []*types.Test
	if err := r.conn(tx).WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testRepo) GetByID(ctx context.Context, tx *gorm.DB, testID uuid.UUID) (*types.Test, error) {
	var result types.Test
	err := r.conn(tx).WithContext(ctx).
		Preload("Questions", func(q *gorm.DB) *gorm.DB {
			return q.Order(`"question"."order" ASC`)
		}).
		Preload("Questions.Answers").
		Where("id = ?", testID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *testRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Test{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *testRepo) CountQuestions(ctx context.Context, tx *gorm.DB, testID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Question{}).
		Where("test_id = ?", testID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *testRepo) GetQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Question, error) {
	var result types.Question
	err := r.conn(tx).WithContext(ctx).
		Preload("Answers").
		Where("id = ?", questionID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *testRepo) GetNextQuestion(ctx context.Context, tx *gorm.DB, testID uuid.UUID, afterOrder int) (*types.Question, error) {
	var result types.Question
	err := r.conn(tx).WithContext(ctx).
		Preload("Answers").
		Where(`test_id = ? AND "order" > ?`, testID, afterOrder).
		Order(`"order" ASC`).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
