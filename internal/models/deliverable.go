package models

import "time"

// Deliverable is one contracted scope line-item ("пункт ТЗ") with its
// suggested and user-selected methodology code lists. Number is a
// free-form label from the contract ("3.1", "1", "А") and need not be
// unique within a project.
type Deliverable struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	ProjectID   uint64 `gorm:"not null;index" json:"project_id"`
	Number      string `gorm:"type:varchar(20)" json:"number"`
	Title       string `gorm:"type:varchar(500);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	SuggestedMethodologies StringList `gorm:"type:text" json:"suggested_methodologies"`
	SelectedMethodologies  StringList `gorm:"type:text" json:"selected_methodologies"`

	IsFromContract bool      `gorm:"default:false" json:"is_from_contract"`
	CreatedAt      time.Time `json:"created_at"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
