package types

import (
	"time"

	"github.com/google/uuid"
)

type Country struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Emoji     string    `gorm:"column:emoji" json:"emoji,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Country) TableName() string { return "country" }

type City struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;index" json:"name"`
	CountryID uuid.UUID `gorm:"type:uuid;not null;index" json:"country_id"`
	Country   *Country  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CountryID;references:ID" json:"country,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (City) TableName() string { return "city" }
