package models

import "time"

type DependencyType string

const (
	DependencyFinishToStart  DependencyType = "FS"
	DependencyStartToStart   DependencyType = "SS"
	DependencyFinishToFinish DependencyType = "FF"
	DependencyStartToFinish  DependencyType = "SF"
)

// ValidDependencyType reports whether t is one of FS, SS, FF, SF.
func ValidDependencyType(t DependencyType) bool {
	switch t {
	case DependencyFinishToStart, DependencyStartToStart,
		DependencyFinishToFinish, DependencyStartToFinish:
		return true
	}
	return false
}

// TaskDependency is a directed precedence edge between two deliverables
// of the same project. Negative lag means lead.
type TaskDependency struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	ProjectID     uint64         `gorm:"not null;index" json:"project_id"`
	PredecessorID uint64         `gorm:"not null" json:"predecessor_id"`
	SuccessorID   uint64         `gorm:"not null" json:"successor_id"`
	Type          DependencyType `gorm:"column:dependency_type;type:varchar(5);not null;default:'FS'" json:"dependency_type"`
	LagDays       int            `gorm:"default:0" json:"lag_days"`
	CreatedAt     time.Time      `json:"created_at"`

	Project     Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Predecessor Deliverable `gorm:"foreignKey:PredecessorID;constraint:OnDelete:CASCADE" json:"predecessor,omitempty"`
	Successor   Deliverable `gorm:"foreignKey:SuccessorID;constraint:OnDelete:CASCADE" json:"successor,omitempty"`
}

// MethodologyTaskDependency is the same edge shape one decomposition
// level down, between methodology tasks.
type MethodologyTaskDependency struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	ProjectID     uint64         `gorm:"not null;index" json:"project_id"`
	PredecessorID uint64         `gorm:"not null" json:"predecessor_id"`
	SuccessorID   uint64         `gorm:"not null" json:"successor_id"`
	Type          DependencyType `gorm:"column:dependency_type;type:varchar(5);not null;default:'FS'" json:"dependency_type"`
	LagDays       int            `gorm:"default:0" json:"lag_days"`
	CreatedAt     time.Time      `json:"created_at"`

	Project     Project         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Predecessor MethodologyTask `gorm:"foreignKey:PredecessorID;constraint:OnDelete:CASCADE" json:"predecessor,omitempty"`
	Successor   MethodologyTask `gorm:"foreignKey:SuccessorID;constraint:OnDelete:CASCADE" json:"successor,omitempty"`
}
