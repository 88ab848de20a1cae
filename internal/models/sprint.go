package models

import "time"

type SprintPhase string

const (
	PhaseSetup    SprintPhase = "SETUP"
	PhaseDiscover SprintPhase = "DISCOVER"
	PhaseDefine   SprintPhase = "DEFINE"
	PhaseDevelop  SprintPhase = "DEVELOP"
	PhaseDeliver  SprintPhase = "DELIVER"
)

// ValidSprintPhase reports whether p is one of the five project phases.
func ValidSprintPhase(p SprintPhase) bool {
	switch p {
	case PhaseSetup, PhaseDiscover, PhaseDefine, PhaseDevelop, PhaseDeliver:
		return true
	}
	return false
}

type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
	SprintBlocked   SprintStatus = "blocked"
)

// Sprint duration bounds in days.
const (
	MinSprintDuration = 3
	MaxSprintDuration = 11
)

// Sprint ("Схватка") is a time-boxed execution unit within one of the
// five phases. Day offsets count from Day 0 = the project's prepayment
// date. Sprints of the same phase may overlap; nothing in the planning
// model depends on disjoint ranges.
type Sprint struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	ProjectID uint64 `gorm:"not null;index" json:"project_id"`

	Phase        SprintPhase `gorm:"type:varchar(20);not null" json:"phase"`
	SprintCode   string      `gorm:"type:varchar(20);not null" json:"sprint_code"`
	SprintNumber int         `gorm:"not null" json:"sprint_number"`

	StartDay     int `gorm:"not null" json:"start_day"`
	EndDay       int `gorm:"not null" json:"end_day"`
	DurationDays int `gorm:"not null" json:"duration_days"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	// Decision day is the last sprint day ("день перегиба").
	DecisionDay     time.Time `gorm:"not null" json:"decision_day"`
	DecisionDayName string    `gorm:"type:varchar(20)" json:"decision_day_name"`
	DecisionPoint   string    `gorm:"type:text" json:"decision_point"`

	SprintGoal   string     `gorm:"type:text" json:"sprint_goal"`
	Deliverables StringList `gorm:"type:text" json:"deliverables"`

	Status          SprintStatus `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	ActualEndDate   *time.Time   `json:"actual_end_date"`
	DecisionOutcome string       `gorm:"type:varchar(20)" json:"decision_outcome"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project Project      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks   []SprintTask `gorm:"foreignKey:SprintID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

type SprintTaskType string

const (
	SprintTaskDeliverable   SprintTaskType = "deliverable"
	SprintTaskCommunication SprintTaskType = "communication"
	SprintTaskProcess       SprintTaskType = "process"
	SprintTaskProduct       SprintTaskType = "product"
)

// ValidSprintTaskType reports whether t is a known operational task type.
func ValidSprintTaskType(t SprintTaskType) bool {
	switch t {
	case SprintTaskDeliverable, SprintTaskCommunication, SprintTaskProcess, SprintTaskProduct:
		return true
	}
	return false
}

type SprintTaskStatus string

const (
	SprintTaskTodo       SprintTaskStatus = "todo"
	SprintTaskInProgress SprintTaskStatus = "in_progress"
	SprintTaskDone       SprintTaskStatus = "done"
	SprintTaskBlocked    SprintTaskStatus = "blocked"
)

// SprintTask is an operational task inside one sprint, optionally linked
// to a methodology task.
type SprintTask struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	ProjectID uint64 `gorm:"not null;index" json:"project_id"`
	SprintID  uint64 `gorm:"not null;index" json:"sprint_id"`

	MethodologyTaskID *uint64 `json:"methodology_task_id"`

	TaskType SprintTaskType `gorm:"type:varchar(20);not null" json:"task_type"`

	Title       string `gorm:"type:varchar(500);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"column:task_order" json:"order"`

	AssignedTo string `gorm:"type:varchar(100)" json:"assigned_to"`

	Status               SprintTaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	CompletionPercentage int              `gorm:"default:0" json:"completion_percentage"`
	BlockedReason        string           `gorm:"type:text" json:"blocked_reason"`

	PlannedHours int `json:"planned_hours"`
	ActualHours  int `json:"actual_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project         Project          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Sprint          Sprint           `gorm:"foreignKey:SprintID;constraint:OnDelete:CASCADE" json:"-"`
	MethodologyTask *MethodologyTask `gorm:"foreignKey:MethodologyTaskID;constraint:OnDelete:SET NULL" json:"methodology_task,omitempty"`
}
