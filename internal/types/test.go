package types

import (
	"time"

	"github.com/google/uuid"
)

type Test struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	Description string     `gorm:"column:description" json:"description,omitempty"`
	Questions   []Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:TestID;references:ID" json:"questions,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Test) TableName() string { return "test" }

type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TestID    uuid.UUID `gorm:"type:uuid;not null;index:idx_question_test_order,priority:1" json:"test_id"`
	Order     int       `gorm:"column:order;not null;index:idx_question_test_order,priority:2" json:"order"`
	Text      string    `gorm:"column:text;not null" json:"text"`
	Answers   []Answer  `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"answers,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Question) TableName() string { return "question" }

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"column:text;not null" json:"text"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Answer) TableName() string { return "answer" }
