package models

import "time"

type MethodologyCategory string

const (
	// CategoryMining (БПМ) covers information-gathering methods.
	CategoryMining MethodologyCategory = "БПМ"
	// CategoryAssembling (БПА) covers consolidation/slide-building methods.
	CategoryAssembling MethodologyCategory = "БПА"
)

// Methodology is one row of the fixed 36-entry research-method catalog.
// Seeded once at startup, read-only thereafter.
type Methodology struct {
	ID                  uint64              `gorm:"primarykey" json:"id"`
	Code                string              `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"`
	Name                string              `gorm:"type:varchar(200);not null" json:"name"`
	Category            MethodologyCategory `gorm:"type:varchar(10);not null" json:"category"`
	Description         string              `gorm:"type:text" json:"description"`
	TypicalEffortHours  int                 `json:"typical_effort_hours"`
	RequiresDetails     bool                `gorm:"default:false" json:"requires_details"`

	Selections []MethodologySelection `gorm:"foreignKey:MethodologyID" json:"-"`
}

// MethodologySelection records that a methodology applies to a project,
// with quantity and effort. IsFromContract distinguishes extraction-sourced
// rows from ones added by hand.
type MethodologySelection struct {
	ID            uint64 `gorm:"primarykey" json:"id"`
	ProjectID     uint64 `gorm:"not null;index" json:"project_id"`
	MethodologyID uint64 `gorm:"not null" json:"methodology_id"`

	IsSelected     bool   `gorm:"default:false" json:"is_selected"`
	IsFromContract bool   `gorm:"default:false" json:"is_from_contract"`
	Quantity       int    `json:"quantity"`
	Details        string `gorm:"type:text" json:"details"`
	EffortHours    int    `json:"effort_hours"`

	CreatedAt time.Time `json:"created_at"`

	Project     Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Methodology Methodology `gorm:"foreignKey:MethodologyID;constraint:OnDelete:CASCADE" json:"methodology,omitempty"`
}
