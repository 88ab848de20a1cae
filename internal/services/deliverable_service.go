package services

import (
	"errors"
	"fmt"

	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrDeliverableTitleRequired = errors.New("deliverable title is required")
	ErrUnknownMethodologyCode   = errors.New("unknown methodology code")
)

// DeliverableService manages deliverables added after project creation
// and their decomposition into methodology tasks.
type DeliverableService struct {
	deliverableRepo repository.DeliverableRepository
	methodologyRepo repository.MethodologyRepository
}

// NewDeliverableService creates a new DeliverableService
func NewDeliverableService(deliverableRepo repository.DeliverableRepository, methodologyRepo repository.MethodologyRepository) *DeliverableService {
	return &DeliverableService{deliverableRepo: deliverableRepo, methodologyRepo: methodologyRepo}
}

// CreateDeliverableInput declares a manually added deliverable.
type CreateDeliverableInput struct {
	Number                string
	Title                 string
	Description           string
	SelectedMethodologies []string
}

// CreateDeliverable adds a deliverable to a project. Manually added rows
// carry is_from_contract = false. Selected methodology codes must exist
// in the catalog.
func (s *DeliverableService) CreateDeliverable(projectID uint64, input CreateDeliverableInput) (*models.Deliverable, error) {
	if input.Title == "" {
		return nil, ErrDeliverableTitleRequired
	}
	for _, code := range input.SelectedMethodologies {
		if _, err := s.methodologyRepo.FindByCode(code); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownMethodologyCode, code)
			}
			return nil, err
		}
	}

	deliverable := &models.Deliverable{
		ProjectID:             projectID,
		Number:                input.Number,
		Title:                 input.Title,
		Description:           input.Description,
		SelectedMethodologies: input.SelectedMethodologies,
	}
	if err := s.deliverableRepo.CreateDeliverable(deliverable); err != nil {
		return nil, fmt.Errorf("failed to create deliverable: %w", err)
	}
	return deliverable, nil
}

// ListDeliverables returns a project's deliverables.
func (s *DeliverableService) ListDeliverables(projectID uint64) ([]models.Deliverable, error) {
	return s.deliverableRepo.ListDeliverables(projectID)
}

// CreateMethodologyTaskInput declares one decomposition step of a
// deliverable.
type CreateMethodologyTaskInput struct {
	DeliverableID   uint64
	MethodologyCode string
	Title           string
	Description     string
	Order           int
	EstimatedHours  int
	AssignedTo      string
}

// CreateMethodologyTask decomposes a deliverable into a step executed
// under one methodology. The deliverable must belong to the project and
// the methodology code must exist in the catalog.
func (s *DeliverableService) CreateMethodologyTask(projectID uint64, input CreateMethodologyTaskInput) (*models.MethodologyTask, error) {
	if input.Title == "" {
		return nil, ErrDeliverableTitleRequired
	}

	deliverable, err := s.deliverableRepo.FindDeliverable(input.DeliverableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliverableNotFound
		}
		return nil, err
	}
	if deliverable.ProjectID != projectID {
		return nil, ErrDeliverableNotFound
	}

	if input.MethodologyCode != "" {
		if _, err := s.methodologyRepo.FindByCode(input.MethodologyCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownMethodologyCode, input.MethodologyCode)
			}
			return nil, err
		}
	}

	task := &models.MethodologyTask{
		ProjectID:       projectID,
		DeliverableID:   deliverable.ID,
		MethodologyCode: input.MethodologyCode,
		Title:           input.Title,
		Description:     input.Description,
		Order:           input.Order,
		EstimatedHours:  input.EstimatedHours,
		AssignedTo:      input.AssignedTo,
		Status:          models.MethodologyTaskPlanned,
	}
	if err := s.deliverableRepo.CreateMethodologyTask(task); err != nil {
		return nil, fmt.Errorf("failed to create methodology task: %w", err)
	}
	return task, nil
}

// ListMethodologyTasks returns a project's methodology tasks.
func (s *DeliverableService) ListMethodologyTasks(projectID uint64) ([]models.MethodologyTask, error) {
	return s.deliverableRepo.ListMethodologyTasks(projectID)
}
