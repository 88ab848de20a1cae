package dto

import (
	"time"

	"github.com/paperplanes/pm-tool/internal/models"
)

// ChecklistItemDTO represents one setup checklist item in API responses
type ChecklistItemDTO struct {
	ID          uint64                `json:"id"`
	ItemNumber  int                   `json:"item_number"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	State       models.ChecklistState `json:"state"`

	IsCompleted bool       `json:"is_completed"`
	CompletedBy string     `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	IsApproved bool       `json:"is_approved"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	ProofType   models.ProofType `json:"proof_type,omitempty"`
	ProofURL    string           `json:"proof_url,omitempty"`
	ProofFileID string           `json:"proof_file_id,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// ChecklistResponse is a project's checklist with progress counters
type ChecklistResponse struct {
	Items     []ChecklistItemDTO `json:"items"`
	Total     int                `json:"total"`
	Completed int                `json:"completed"`
	Approved  int                `json:"approved"`
	Done      bool               `json:"done"`
}

// ToChecklistItemDTO converts a SetupChecklistItem model to ChecklistItemDTO
func ToChecklistItemDTO(item models.SetupChecklistItem) ChecklistItemDTO {
	return ChecklistItemDTO{
		ID:          item.ID,
		ItemNumber:  item.ItemNumber,
		Title:       item.Title,
		Description: item.Description,
		State:       item.State(),
		IsCompleted: item.IsCompleted,
		CompletedBy: item.CompletedBy,
		CompletedAt: item.CompletedAt,
		IsApproved:  item.IsApproved,
		ApprovedBy:  item.ApprovedBy,
		ApprovedAt:  item.ApprovedAt,
		ProofType:   item.ProofType,
		ProofURL:    item.ProofURL,
		ProofFileID: item.ProofFileID,
		Notes:       item.Notes,
	}
}

// ToChecklistResponse converts checklist progress to ChecklistResponse
func ToChecklistResponse(items []models.SetupChecklistItem, completed, approved int, done bool) ChecklistResponse {
	dtos := make([]ChecklistItemDTO, len(items))
	for i, item := range items {
		dtos[i] = ToChecklistItemDTO(item)
	}
	return ChecklistResponse{
		Items:     dtos,
		Total:     len(items),
		Completed: completed,
		Approved:  approved,
		Done:      done,
	}
}
