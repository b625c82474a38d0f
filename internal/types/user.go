package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	// Profile context fed into guidance prompts.
	AcademicInfo          datatypes.JSON `gorm:"column:academic_info;type:jsonb" json:"academic_info,omitempty"`
	Interests             datatypes.JSON `gorm:"column:interests;type:jsonb" json:"interests,omitempty"`
	LanguageProficiencies datatypes.JSON `gorm:"column:language_proficiencies;type:jsonb" json:"language_proficiencies,omitempty"`
	CreatedAt             time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
