package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Submission progress states. COMPLETED is terminal.
const (
	SubmissionNotStarted = "NOT_STARTED"
	SubmissionActive     = "ACTIVE"
	SubmissionCompleted  = "COMPLETED"
)

type TestSubmission struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_submission_user_test,unique,priority:1" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TestID uuid.UUID `gorm:"type:uuid;not null;index:idx_submission_user_test,unique,priority:2" json:"test_id"`
	Test   *Test     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TestID;references:ID" json:"test,omitempty"`
	Status string    `gorm:"column:status;not null;default:'NOT_STARTED'" json:"status"`
	// Short analysis stored when the submission completes.
	AnalysisSummary    string            `gorm:"column:analysis_summary" json:"analysis_summary,omitempty"`
	AnalysisKeyFactors datatypes.JSON    `gorm:"column:analysis_key_factors;type:jsonb" json:"analysis_key_factors,omitempty"`
	Answers            []SubmittedAnswer `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"answers,omitempty"`
	CreatedAt          time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (TestSubmission) TableName() string { return "test_submission" }

type SubmittedAnswer struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question     *Question `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	AnswerID     uuid.UUID `gorm:"type:uuid;not null" json:"answer_id"`
	Answer       *Answer   `gorm:"foreignKey:AnswerID;references:ID" json:"answer,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SubmittedAnswer) TableName() string { return "submitted_answer" }
