package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrChecklistItemNotFound = errors.New("checklist item not found")
	ErrAlreadyCompleted      = errors.New("checklist item already completed")
	ErrAlreadyApproved       = errors.New("checklist item already approved")
	ErrNotCompleted          = errors.New("checklist item must be completed before approval")
	ErrNotAnApprover         = errors.New("only a listed approver can sign off checklist items")
	ErrAmbiguousProof        = errors.New("proof is either a link or a file, not both")
	ErrActorRequired         = errors.New("actor name is required")
)

// ChecklistService drives the per-item setup state machine:
// not_started → completed → approved, no reverse transitions.
type ChecklistService struct {
	checklistRepo repository.ChecklistRepository
}

// NewChecklistService creates a new ChecklistService
func NewChecklistService(checklistRepo repository.ChecklistRepository) *ChecklistService {
	return &ChecklistService{checklistRepo: checklistRepo}
}

// ChecklistProgress summarizes a project's checklist.
type ChecklistProgress struct {
	Items     []models.SetupChecklistItem `json:"items"`
	Total     int                         `json:"total"`
	Completed int                         `json:"completed"`
	Approved  int                         `json:"approved"`
	Done      bool                        `json:"done"`
}

// GetChecklist returns a project's checklist with progress counters.
// Setup is done when every item is approved.
func (s *ChecklistService) GetChecklist(projectID uint64) (*ChecklistProgress, error) {
	items, err := s.checklistRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}

	progress := &ChecklistProgress{Items: items, Total: len(items)}
	for _, item := range items {
		if item.IsCompleted {
			progress.Completed++
		}
		if item.IsApproved {
			progress.Approved++
		}
	}
	progress.Done = progress.Total > 0 && progress.Approved == progress.Total
	return progress, nil
}

// CompleteItemInput carries the completion proof. ProofURL and
// ProofFileID are mutually exclusive.
type CompleteItemInput struct {
	CompletedBy string
	ProofURL    string
	ProofFileID string
	Notes       string
}

// CompleteItem marks one checklist item completed. Completion is
// one-way: a completed item stays completed.
func (s *ChecklistService) CompleteItem(projectID uint64, itemNumber int, input CompleteItemInput) (*models.SetupChecklistItem, error) {
	if input.CompletedBy == "" {
		return nil, ErrActorRequired
	}
	if input.ProofURL != "" && input.ProofFileID != "" {
		return nil, ErrAmbiguousProof
	}

	item, err := s.findItem(projectID, itemNumber)
	if err != nil {
		return nil, err
	}
	if item.IsCompleted {
		return nil, ErrAlreadyCompleted
	}

	now := time.Now()
	item.IsCompleted = true
	item.CompletedBy = input.CompletedBy
	item.CompletedAt = &now
	item.Notes = input.Notes
	switch {
	case input.ProofURL != "":
		item.ProofType = models.ProofLink
		item.ProofURL = input.ProofURL
	case input.ProofFileID != "":
		item.ProofType = models.ProofFile
		item.ProofFileID = input.ProofFileID
	}

	if err := s.checklistRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to save checklist item: %w", err)
	}
	return item, nil
}

// ApproveItem signs a completed item off. Only the fixed approver list
// may approve, and approval requires prior completion.
func (s *ChecklistService) ApproveItem(projectID uint64, itemNumber int, approvedBy string) (*models.SetupChecklistItem, error) {
	if approvedBy == "" {
		return nil, ErrActorRequired
	}
	if !models.IsApprover(approvedBy) {
		return nil, ErrNotAnApprover
	}

	item, err := s.findItem(projectID, itemNumber)
	if err != nil {
		return nil, err
	}
	if !item.IsCompleted {
		return nil, ErrNotCompleted
	}
	if item.IsApproved {
		return nil, ErrAlreadyApproved
	}

	now := time.Now()
	item.IsApproved = true
	item.ApprovedBy = approvedBy
	item.ApprovedAt = &now

	if err := s.checklistRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to save checklist item: %w", err)
	}
	return item, nil
}

func (s *ChecklistService) findItem(projectID uint64, itemNumber int) (*models.SetupChecklistItem, error) {
	item, err := s.checklistRepo.FindItem(projectID, itemNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistItemNotFound
		}
		return nil, fmt.Errorf("failed to find checklist item: %w", err)
	}
	return item, nil
}
