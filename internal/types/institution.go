package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	InstitutionFinancingPublic  = "PUBLIC"
	InstitutionFinancingPrivate = "PRIVATE"
)

type Institution struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string     `gorm:"column:name;not null;index" json:"name"`
	ShortName      string     `gorm:"column:short_name" json:"short_name,omitempty"`
	Description    string     `gorm:"column:description" json:"description,omitempty"`
	FoundationYear string     `gorm:"column:foundation_year" json:"foundation_year,omitempty"`
	FinancingType  string     `gorm:"column:financing_type;index" json:"financing_type,omitempty"` // PUBLIC|PRIVATE
	Type           string     `gorm:"column:type;index" json:"type,omitempty"`                     // UNIVERSITY|COLLEGE|ACADEMY
	Website        string     `gorm:"column:website" json:"website,omitempty"`
	Email          string     `gorm:"column:email" json:"email,omitempty"`
	ContactNumber  string     `gorm:"column:contact_number" json:"contact_number,omitempty"`
	Address        string     `gorm:"column:address" json:"address,omitempty"`
	HasDorm        bool       `gorm:"column:has_dorm;not null;default:false" json:"has_dorm"`
	ImageURL       string     `gorm:"column:image_url" json:"image_url,omitempty"`
	CountryID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"country_id"`
	Country        *Country   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CountryID;references:ID" json:"country,omitempty"`
	CityID         *uuid.UUID `gorm:"type:uuid;index" json:"city_id,omitempty"`
	City           *City      `gorm:"foreignKey:CityID;references:ID" json:"city,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Institution) TableName() string { return "institution" }
