package types

import (
	"time"

	"github.com/google/uuid"
)

// InstitutionAnalysis is the two-phase aggregate: the coarse phase creates
// the row with chance-ranked entries, the deep phase appends attributes and
// plan steps to one entry at a time.
type InstitutionAnalysis struct {
	ID        uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID                  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Entries   []InstitutionAnalysisEntry `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalysisID;references:ID" json:"entries,omitempty"`
	CreatedAt time.Time                  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time                  `gorm:"not null;default:now()" json:"updated_at"`
}

func (InstitutionAnalysis) TableName() string { return "institution_analysis" }

type InstitutionAnalysisEntry struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AnalysisID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_analysis_entry,unique,priority:1" json:"analysis_id"`
	InstitutionID    uuid.UUID              `gorm:"type:uuid;not null;index:idx_analysis_entry,unique,priority:2" json:"institution_id"`
	Institution      *Institution           `gorm:"foreignKey:InstitutionID;references:ID" json:"institution,omitempty"`
	ChancePercentage float64                `gorm:"column:chance_percentage;not null" json:"chance_percentage"`
	Attributes       []InstitutionAttribute `gorm:"constraint:OnDelete:CASCADE;foreignKey:EntryID;references:ID" json:"attributes,omitempty"`
	PlanSteps        []InstitutionPlanStep  `gorm:"constraint:OnDelete:CASCADE;foreignKey:EntryID;references:ID" json:"plan,omitempty"`
	CreatedAt        time.Time              `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time              `gorm:"not null;default:now()" json:"updated_at"`
}

func (InstitutionAnalysisEntry) TableName() string { return "institution_analysis_entry" }

type InstitutionAttribute struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntryID        uuid.UUID `gorm:"type:uuid;not null;index" json:"entry_id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Type           string    `gorm:"column:type;not null" json:"type"` // PROS|CONS
	Description    string    `gorm:"column:description" json:"description,omitempty"`
	Recommendation string    `gorm:"column:recommendation" json:"recommendation,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (InstitutionAttribute) TableName() string { return "institution_attribute" }

type InstitutionPlanStep struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntryID       uuid.UUID `gorm:"type:uuid;not null;index" json:"entry_id"`
	Order         int       `gorm:"column:order;not null" json:"order"`
	Name          string    `gorm:"column:name;not null" json:"name"`
	Description   string    `gorm:"column:description" json:"description,omitempty"`
	DurationMonth *int      `gorm:"column:duration_month" json:"duration_month,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (InstitutionPlanStep) TableName() string { return "institution_plan_step" }
