package models

import (
	"regexp"
	"strings"
	"time"
)

type ProjectGroup string

const (
	GroupLeft  ProjectGroup = "left"
	GroupRight ProjectGroup = "right"
)

type ProjectType string

const (
	ProjectTypeNew      ProjectType = "new"
	ProjectTypeExisting ProjectType = "existing"
)

type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusSetup     ProjectStatus = "setup"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// projectCodePattern matches codes like "2170.ACM.acme-corp": a sequence
// number, a 3-letter ticker (latin or cyrillic, uppercase), a client slug.
var projectCodePattern = regexp.MustCompile(`^\d{4}\.[A-ZА-ЯЁ]{3}\.[a-zа-яё0-9][a-zа-яё0-9-]*$`)

// Project is the root entity for a client engagement.
type Project struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	ProjectCode string `gorm:"type:varchar(50);uniqueIndex;not null" json:"project_code"`
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Client      string `gorm:"type:varchar(100);not null;index" json:"client"`

	ContractSignedDate *time.Time `json:"contract_signed_date"`
	// PrepaymentDate is Day 0 of the project; always equals StartDate.
	PrepaymentDate time.Time `gorm:"not null" json:"prepayment_date"`
	StartDate      time.Time `gorm:"not null" json:"start_date"`
	EndDate        time.Time `gorm:"not null" json:"end_date"`

	Status ProjectStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Group  ProjectGroup  `gorm:"type:varchar(20);not null;index" json:"group"`
	Type   ProjectType   `gorm:"column:project_type;type:varchar(20);not null" json:"project_type"`

	// Financials, populated from contract extraction when available.
	BudgetTotal    float64 `gorm:"type:decimal(15,2)" json:"budget_total"`
	BudgetCurrency string  `gorm:"type:varchar(10);default:'RUB'" json:"budget_currency"`
	VATIncluded    bool    `gorm:"default:true" json:"vat_included"`
	VATRate        int     `gorm:"default:5" json:"vat_rate"`
	DurationWeeks  int     `json:"duration_weeks"`

	SalesNotes       string `gorm:"type:text" json:"sales_notes"`
	ProjectSpecifics string `gorm:"type:text" json:"project_specifics"`

	// Integration pointers, filled after the post-commit artifact phase.
	DriveFolderID  string `gorm:"type:varchar(200)" json:"drive_folder_id"`
	DriveFolderURL string `gorm:"type:text" json:"drive_folder_url"`
	VaultPath      string `gorm:"type:varchar(500)" json:"vault_path"`

	CreatedBy string    `gorm:"type:varchar(100)" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations; cascade delete is declared on the child FKs.
	Documents     []ProjectDocument      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	Selections    []MethodologySelection `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"selections,omitempty"`
	PaymentStages []PaymentStage         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"payment_stages,omitempty"`
	Deliverables  []Deliverable          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"deliverables,omitempty"`
	Sprints       []Sprint               `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"sprints,omitempty"`
	Checklist     []SetupChecklistItem   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"checklist,omitempty"`
}

// ValidProjectCode reports whether code matches the NNNN.AAA.slug format.
func ValidProjectCode(code string) bool {
	return projectCodePattern.MatchString(code)
}

// Ticker returns the 3-letter abbreviation from the project code,
// "XXX" if the code is malformed.
func (p *Project) Ticker() string {
	parts := strings.Split(p.ProjectCode, ".")
	if len(parts) < 2 {
		return "XXX"
	}
	return parts[1]
}
