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
	ErrSprintNotFound        = errors.New("sprint not found")
	ErrSprintTaskNotFound    = errors.New("sprint task not found")
	ErrInvalidSprintPhase    = errors.New("phase must be one of SETUP, DISCOVER, DEFINE, DEVELOP, DELIVER")
	ErrInvalidSprintDays     = errors.New("start day must precede end day")
	ErrInvalidSprintDuration = fmt.Errorf("sprint duration must be %d to %d days", models.MinSprintDuration, models.MaxSprintDuration)
	ErrInvalidSprintTaskType = errors.New("task type must be one of deliverable, communication, process, product")
	ErrSprintTitleRequired   = errors.New("task title is required")
)

// weekdayNames maps Go weekdays to the Russian names used in sprint
// plans.
var weekdayNames = map[time.Weekday]string{
	time.Monday:    "понедельник",
	time.Tuesday:   "вторник",
	time.Wednesday: "среда",
	time.Thursday:  "четверг",
	time.Friday:    "пятница",
	time.Saturday:  "суббота",
	time.Sunday:    "воскресенье",
}

// SprintService manages sprints and their operational tasks. Day offsets
// count from Day 0 = the project's prepayment date; absolute dates are
// derived from it at creation.
type SprintService struct {
	sprintRepo  repository.SprintRepository
	projectRepo repository.ProjectRepository
}

// NewSprintService creates a new SprintService
func NewSprintService(sprintRepo repository.SprintRepository, projectRepo repository.ProjectRepository) *SprintService {
	return &SprintService{sprintRepo: sprintRepo, projectRepo: projectRepo}
}

// CreateSprintInput declares one sprint by phase and day offsets.
type CreateSprintInput struct {
	Phase         models.SprintPhase
	SprintNumber  int
	StartDay      int
	EndDay        int
	SprintGoal    string
	DecisionPoint string
	Deliverables  []string
}

// CreateSprint validates the day window against the duration bounds and
// derives the absolute dates and decision day from the project's
// prepayment date.
func (s *SprintService) CreateSprint(projectID uint64, input CreateSprintInput) (*models.Sprint, error) {
	if !models.ValidSprintPhase(input.Phase) {
		return nil, ErrInvalidSprintPhase
	}
	if input.StartDay < 0 || input.StartDay >= input.EndDay {
		return nil, ErrInvalidSprintDays
	}
	duration := input.EndDay - input.StartDay
	if duration < models.MinSprintDuration || duration > models.MaxSprintDuration {
		return nil, ErrInvalidSprintDuration
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	startDate := project.PrepaymentDate.AddDate(0, 0, input.StartDay)
	endDate := project.PrepaymentDate.AddDate(0, 0, input.EndDay)

	sprintNumber := input.SprintNumber
	if sprintNumber == 0 {
		existing, err := s.sprintRepo.ListByProject(projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to number sprint: %w", err)
		}
		sprintNumber = len(existing) + 1
	}

	sprint := &models.Sprint{
		ProjectID:       projectID,
		Phase:           input.Phase,
		SprintCode:      fmt.Sprintf("%s-%d", input.Phase, sprintNumber),
		SprintNumber:    sprintNumber,
		StartDay:        input.StartDay,
		EndDay:          input.EndDay,
		DurationDays:    duration,
		StartDate:       startDate,
		EndDate:         endDate,
		DecisionDay:     endDate,
		DecisionDayName: weekdayNames[endDate.Weekday()],
		DecisionPoint:   input.DecisionPoint,
		SprintGoal:      input.SprintGoal,
		Deliverables:    input.Deliverables,
		Status:          models.SprintPlanned,
	}

	if err := s.sprintRepo.Create(sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}
	return sprint, nil
}

// GetSprint loads a sprint with the given relations preloaded.
func (s *SprintService) GetSprint(id uint64, preload ...string) (*models.Sprint, error) {
	sprint, err := s.sprintRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	return sprint, nil
}

// ListSprints returns a project's sprints ordered by start day.
func (s *SprintService) ListSprints(projectID uint64) ([]models.Sprint, error) {
	return s.sprintRepo.ListByProject(projectID)
}

// UpdateSprintInput carries mutable sprint fields; nil means no change.
type UpdateSprintInput struct {
	Status          *models.SprintStatus
	SprintGoal      *string
	DecisionPoint   *string
	DecisionOutcome *string
	ActualEndDate   *time.Time
}

var validSprintStatuses = map[models.SprintStatus]bool{
	models.SprintPlanned:   true,
	models.SprintActive:    true,
	models.SprintCompleted: true,
	models.SprintBlocked:   true,
}

// UpdateSprint applies a partial update to a sprint.
func (s *SprintService) UpdateSprint(id uint64, input UpdateSprintInput) (*models.Sprint, error) {
	sprint, err := s.GetSprint(id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !validSprintStatuses[*input.Status] {
			return nil, fmt.Errorf("invalid sprint status %q", *input.Status)
		}
		sprint.Status = *input.Status
	}
	if input.SprintGoal != nil {
		sprint.SprintGoal = *input.SprintGoal
	}
	if input.DecisionPoint != nil {
		sprint.DecisionPoint = *input.DecisionPoint
	}
	if input.DecisionOutcome != nil {
		sprint.DecisionOutcome = *input.DecisionOutcome
	}
	if input.ActualEndDate != nil {
		sprint.ActualEndDate = input.ActualEndDate
	}

	if err := s.sprintRepo.Update(sprint); err != nil {
		return nil, fmt.Errorf("failed to update sprint: %w", err)
	}
	return sprint, nil
}

// CreateSprintTaskInput declares one operational task inside a sprint.
type CreateSprintTaskInput struct {
	TaskType          models.SprintTaskType
	Title             string
	Description       string
	Order             int
	AssignedTo        string
	PlannedHours      int
	MethodologyTaskID *uint64
}

// CreateTask adds an operational task to a sprint.
func (s *SprintService) CreateTask(sprintID uint64, input CreateSprintTaskInput) (*models.SprintTask, error) {
	if !models.ValidSprintTaskType(input.TaskType) {
		return nil, ErrInvalidSprintTaskType
	}
	if input.Title == "" {
		return nil, ErrSprintTitleRequired
	}

	sprint, err := s.GetSprint(sprintID)
	if err != nil {
		return nil, err
	}

	task := &models.SprintTask{
		ProjectID:         sprint.ProjectID,
		SprintID:          sprint.ID,
		MethodologyTaskID: input.MethodologyTaskID,
		TaskType:          input.TaskType,
		Title:             input.Title,
		Description:       input.Description,
		Order:             input.Order,
		AssignedTo:        input.AssignedTo,
		Status:            models.SprintTaskTodo,
		PlannedHours:      input.PlannedHours,
	}

	if err := s.sprintRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create sprint task: %w", err)
	}
	return task, nil
}

// ListTasks returns a sprint's tasks ordered by task order.
func (s *SprintService) ListTasks(sprintID uint64) ([]models.SprintTask, error) {
	return s.sprintRepo.ListTasks(sprintID)
}

// UpdateSprintTaskInput carries mutable task fields; nil means no change.
type UpdateSprintTaskInput struct {
	Status               *models.SprintTaskStatus
	CompletionPercentage *int
	AssignedTo           *string
	BlockedReason        *string
	ActualHours          *int
}

var validSprintTaskStatuses = map[models.SprintTaskStatus]bool{
	models.SprintTaskTodo:       true,
	models.SprintTaskInProgress: true,
	models.SprintTaskDone:       true,
	models.SprintTaskBlocked:    true,
}

// UpdateTask applies a partial update to a sprint task.
func (s *SprintService) UpdateTask(taskID uint64, input UpdateSprintTaskInput) (*models.SprintTask, error) {
	task, err := s.sprintRepo.FindTask(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintTaskNotFound
		}
		return nil, err
	}

	if input.Status != nil {
		if !validSprintTaskStatuses[*input.Status] {
			return nil, fmt.Errorf("invalid task status %q", *input.Status)
		}
		task.Status = *input.Status
		if *input.Status == models.SprintTaskDone {
			task.CompletionPercentage = 100
		}
	}
	if input.CompletionPercentage != nil {
		if *input.CompletionPercentage < 0 || *input.CompletionPercentage > 100 {
			return nil, errors.New("completion percentage must be between 0 and 100")
		}
		task.CompletionPercentage = *input.CompletionPercentage
	}
	if input.AssignedTo != nil {
		task.AssignedTo = *input.AssignedTo
	}
	if input.BlockedReason != nil {
		task.BlockedReason = *input.BlockedReason
	}
	if input.ActualHours != nil {
		task.ActualHours = *input.ActualHours
	}

	if err := s.sprintRepo.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to update sprint task: %w", err)
	}
	return task, nil
}
