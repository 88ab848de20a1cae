package services

import (
	"errors"
	"fmt"

	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSelfDependency        = errors.New("a task cannot depend on itself")
	ErrCrossProjectDep       = errors.New("predecessor and successor must belong to the same project")
	ErrDependencyCycle       = errors.New("dependency would create a cycle")
	ErrInvalidDependencyType = errors.New("dependency type must be one of FS, SS, FF, SF")
	ErrDeliverableNotFound   = errors.New("deliverable not found")
	ErrTaskNotFound          = errors.New("methodology task not found")
)

// DependencyService manages the precedence graphs over a project's
// deliverables and methodology tasks. Acyclicity is enforced at edge
// insertion: an edge that would close a cycle is rejected.
type DependencyService struct {
	deliverableRepo repository.DeliverableRepository
}

// NewDependencyService creates a new DependencyService
func NewDependencyService(deliverableRepo repository.DeliverableRepository) *DependencyService {
	return &DependencyService{deliverableRepo: deliverableRepo}
}

// AddDependencyInput declares one typed precedence edge.
type AddDependencyInput struct {
	ProjectID     uint64
	PredecessorID uint64
	SuccessorID   uint64
	Type          models.DependencyType
	LagDays       int
}

func (in *AddDependencyInput) normalize() error {
	if in.Type == "" {
		in.Type = models.DependencyFinishToStart
	}
	if !models.ValidDependencyType(in.Type) {
		return ErrInvalidDependencyType
	}
	if in.PredecessorID == in.SuccessorID {
		return ErrSelfDependency
	}
	return nil
}

// AddDeliverableDependency creates a precedence edge between two
// deliverables of the same project.
func (s *DependencyService) AddDeliverableDependency(input AddDependencyInput) (*models.TaskDependency, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	predecessor, err := s.deliverableRepo.FindDeliverable(input.PredecessorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliverableNotFound
		}
		return nil, fmt.Errorf("failed to find predecessor: %w", err)
	}
	successor, err := s.deliverableRepo.FindDeliverable(input.SuccessorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliverableNotFound
		}
		return nil, fmt.Errorf("failed to find successor: %w", err)
	}

	if predecessor.ProjectID != input.ProjectID || successor.ProjectID != input.ProjectID {
		return nil, ErrCrossProjectDep
	}

	existing, err := s.deliverableRepo.ListDependencies(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dependency graph: %w", err)
	}
	edges := make([][2]uint64, len(existing))
	for i, dep := range existing {
		edges[i] = [2]uint64{dep.PredecessorID, dep.SuccessorID}
	}
	if wouldCloseCycle(edges, input.PredecessorID, input.SuccessorID) {
		return nil, ErrDependencyCycle
	}

	dep := &models.TaskDependency{
		ProjectID:     input.ProjectID,
		PredecessorID: input.PredecessorID,
		SuccessorID:   input.SuccessorID,
		Type:          input.Type,
		LagDays:       input.LagDays,
	}
	if err := s.deliverableRepo.CreateDependency(dep); err != nil {
		return nil, fmt.Errorf("failed to create dependency: %w", err)
	}
	return dep, nil
}

// AddMethodologyTaskDependency creates a precedence edge one
// decomposition level down, between methodology tasks.
func (s *DependencyService) AddMethodologyTaskDependency(input AddDependencyInput) (*models.MethodologyTaskDependency, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	predecessor, err := s.deliverableRepo.FindMethodologyTask(input.PredecessorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find predecessor: %w", err)
	}
	successor, err := s.deliverableRepo.FindMethodologyTask(input.SuccessorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find successor: %w", err)
	}

	if predecessor.ProjectID != input.ProjectID || successor.ProjectID != input.ProjectID {
		return nil, ErrCrossProjectDep
	}

	existing, err := s.deliverableRepo.ListMethodologyTaskDependencies(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dependency graph: %w", err)
	}
	edges := make([][2]uint64, len(existing))
	for i, dep := range existing {
		edges[i] = [2]uint64{dep.PredecessorID, dep.SuccessorID}
	}
	if wouldCloseCycle(edges, input.PredecessorID, input.SuccessorID) {
		return nil, ErrDependencyCycle
	}

	dep := &models.MethodologyTaskDependency{
		ProjectID:     input.ProjectID,
		PredecessorID: input.PredecessorID,
		SuccessorID:   input.SuccessorID,
		Type:          input.Type,
		LagDays:       input.LagDays,
	}
	if err := s.deliverableRepo.CreateMethodologyTaskDependency(dep); err != nil {
		return nil, fmt.Errorf("failed to create dependency: %w", err)
	}
	return dep, nil
}

// ListDeliverableDependencies returns a project's deliverable edges.
func (s *DependencyService) ListDeliverableDependencies(projectID uint64) ([]models.TaskDependency, error) {
	return s.deliverableRepo.ListDependencies(projectID)
}

// ListMethodologyTaskDependencies returns a project's task-level edges.
func (s *DependencyService) ListMethodologyTaskDependencies(projectID uint64) ([]models.MethodologyTaskDependency, error) {
	return s.deliverableRepo.ListMethodologyTaskDependencies(projectID)
}

// wouldCloseCycle reports whether adding pred→succ to the edge set
// creates a cycle, i.e. whether pred is already reachable from succ.
func wouldCloseCycle(edges [][2]uint64, pred, succ uint64) bool {
	adjacency := make(map[uint64][]uint64, len(edges))
	for _, e := range edges {
		adjacency[e[0]] = append(adjacency[e[0]], e[1])
	}

	visited := map[uint64]bool{}
	stack := []uint64{succ}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == pred {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, adjacency[node]...)
	}
	return false
}
