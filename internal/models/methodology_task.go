package models

import "time"

type MethodologyTaskStatus string

const (
	MethodologyTaskPlanned    MethodologyTaskStatus = "planned"
	MethodologyTaskInProgress MethodologyTaskStatus = "in_progress"
	MethodologyTaskCompleted  MethodologyTaskStatus = "completed"
	MethodologyTaskBlocked    MethodologyTaskStatus = "blocked"
)

// MethodologyTask decomposes a deliverable into executable steps within
// one methodology.
type MethodologyTask struct {
	ID              uint64 `gorm:"primarykey" json:"id"`
	ProjectID       uint64 `gorm:"not null;index" json:"project_id"`
	DeliverableID   uint64 `gorm:"not null" json:"deliverable_id"`
	MethodologyCode string `gorm:"type:varchar(10);not null" json:"methodology_code"`

	Title       string `gorm:"type:varchar(500);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"column:task_order" json:"order"`

	EstimatedHours int        `json:"estimated_hours"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	AssignedTo     string     `gorm:"type:varchar(100)" json:"assigned_to"`

	Status               MethodologyTaskStatus `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	CompletionPercentage int                   `gorm:"default:0" json:"completion_percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project     Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Deliverable Deliverable `gorm:"foreignKey:DeliverableID;constraint:OnDelete:CASCADE" json:"-"`
}
