package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AttributePros = "PROS"
	AttributeCons = "CONS"
)

// PersonalityAnalysis is persisted as one atomic unit: the row and all four
// child collections are written in a single transaction, never partially.
type PersonalityAnalysis struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	MBTI        *MBTIResult           `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalysisID;references:ID" json:"mbti,omitempty"`
	Professions []ProfessionMatch     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalysisID;references:ID" json:"professions,omitempty"`
	Majors      []MajorRecommendation `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalysisID;references:ID" json:"majors,omitempty"`
	Attributes  []AnalysisAttribute   `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalysisID;references:ID" json:"attributes,omitempty"`
	CreatedAt   time.Time             `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"not null;default:now()" json:"updated_at"`
}

func (PersonalityAnalysis) TableName() string { return "personality_analysis" }

type MBTIResult struct {
	ID                     uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AnalysisID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"analysis_id"`
	Title                  string         `gorm:"column:title;not null" json:"title"`
	Description            string         `gorm:"column:description" json:"description"`
	MBTICode               string         `gorm:"column:mbti_code;not null" json:"mbti_code"`
	MBTIName               string         `gorm:"column:mbti_name;not null" json:"mbti_name"`
	ShortAttributes        datatypes.JSON `gorm:"column:short_attributes;type:jsonb" json:"short_attributes"`
	WorkStyles             datatypes.JSON `gorm:"column:work_styles;type:jsonb" json:"work_styles"`
	IntroversionPercentage int            `gorm:"column:introversion_percentage;not null" json:"introversion_percentage"`
	ThinkingPercentage     int            `gorm:"column:thinking_percentage;not null" json:"thinking_percentage"`
	CreativityPercentage   int            `gorm:"column:creativity_percentage;not null" json:"creativity_percentage"`
	IntuitionPercentage    int            `gorm:"column:intuition_percentage;not null" json:"intuition_percentage"`
	PlanningPercentage     int            `gorm:"column:planning_percentage;not null" json:"planning_percentage"`
	LeadingPercentage      int            `gorm:"column:leading_percentage;not null" json:"leading_percentage"`
	CreatedAt              time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (MBTIResult) TableName() string { return "mbti_result" }

type ProfessionMatch struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AnalysisID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"analysis_id"`
	ProfessionID uuid.UUID   `gorm:"type:uuid;not null;index" json:"profession_id"`
	Profession   *Profession `gorm:"foreignKey:ProfessionID;references:ID" json:"profession,omitempty"`
	Percentage   float64     `gorm:"column:percentage;not null" json:"percentage"`
	CreatedAt    time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (ProfessionMatch) TableName() string { return "profession_match" }

type MajorRecommendation struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_id"`
	Category   string    `gorm:"column:category;not null" json:"category"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MajorRecommendation) TableName() string { return "major_recommendation" }

type AnalysisAttribute struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AnalysisID      uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_id"`
	Type            string    `gorm:"column:type;not null" json:"type"` // PROS|CONS
	Name            string    `gorm:"column:name;not null" json:"name"`
	Description     string    `gorm:"column:description" json:"description"`
	Recommendations string    `gorm:"column:recommendations" json:"recommendations"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AnalysisAttribute) TableName() string { return "analysis_attribute" }
