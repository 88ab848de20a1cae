package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/paperplanes/pm-tool/internal/errors"
	"github.com/paperplanes/pm-tool/internal/middleware"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/services"
)

// SprintHandler serves sprints and their operational tasks.
type SprintHandler struct {
	sprintService *services.SprintService
}

// NewSprintHandler creates a new SprintHandler.
func NewSprintHandler(sprintService *services.SprintService) *SprintHandler {
	return &SprintHandler{
		sprintService: sprintService,
	}
}

// ListSprints returns a project's sprints.
func (h *SprintHandler) ListSprints(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	sprints, err := h.sprintService.ListSprints(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch sprints")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sprints": sprints})
}

// CreateSprint adds a sprint to a project by phase and day offsets.
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateSprintRequest struct {
		Phase         models.SprintPhase `json:"phase" binding:"required"`
		SprintNumber  int                `json:"sprint_number"`
		StartDay      int                `json:"start_day"`
		EndDay        int                `json:"end_day" binding:"required"`
		SprintGoal    string             `json:"sprint_goal"`
		DecisionPoint string             `json:"decision_point"`
		Deliverables  []string           `json:"deliverables"`
	}

	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.CreateSprint(project.ID, services.CreateSprintInput{
		Phase:         req.Phase,
		SprintNumber:  req.SprintNumber,
		StartDay:      req.StartDay,
		EndDay:        req.EndDay,
		SprintGoal:    req.SprintGoal,
		DecisionPoint: req.DecisionPoint,
		Deliverables:  req.Deliverables,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sprint)
}

// GetSprint returns one sprint with its tasks.
func (h *SprintHandler) GetSprint(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("sprintId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid sprint ID")
		return
	}

	sprint, err := h.sprintService.GetSprint(sprintID, "Tasks")
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, sprint)
}

// UpdateSprint applies a partial update to a sprint.
func (h *SprintHandler) UpdateSprint(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("sprintId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid sprint ID")
		return
	}

	type UpdateSprintRequest struct {
		Status          *models.SprintStatus `json:"status"`
		SprintGoal      *string              `json:"sprint_goal"`
		DecisionPoint   *string              `json:"decision_point"`
		DecisionOutcome *string              `json:"decision_outcome"`
		ActualEndDate   *time.Time           `json:"actual_end_date"`
	}

	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.UpdateSprint(sprintID, services.UpdateSprintInput{
		Status:          req.Status,
		SprintGoal:      req.SprintGoal,
		DecisionPoint:   req.DecisionPoint,
		DecisionOutcome: req.DecisionOutcome,
		ActualEndDate:   req.ActualEndDate,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, sprint)
}

// ListSprintTasks returns a sprint's tasks.
func (h *SprintHandler) ListSprintTasks(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("sprintId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid sprint ID")
		return
	}

	tasks, err := h.sprintService.ListTasks(sprintID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch sprint tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateSprintTask adds an operational task to a sprint.
func (h *SprintHandler) CreateSprintTask(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("sprintId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid sprint ID")
		return
	}

	type CreateTaskRequest struct {
		TaskType          models.SprintTaskType `json:"task_type" binding:"required"`
		Title             string                `json:"title" binding:"required"`
		Description       string                `json:"description"`
		Order             int                   `json:"order"`
		AssignedTo        string                `json:"assigned_to"`
		PlannedHours      int                   `json:"planned_hours"`
		MethodologyTaskID *uint64               `json:"methodology_task_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.sprintService.CreateTask(sprintID, services.CreateSprintTaskInput{
		TaskType:          req.TaskType,
		Title:             req.Title,
		Description:       req.Description,
		Order:             req.Order,
		AssignedTo:        req.AssignedTo,
		PlannedHours:      req.PlannedHours,
		MethodologyTaskID: req.MethodologyTaskID,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateSprintTask applies a partial update to a sprint task.
func (h *SprintHandler) UpdateSprintTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateTaskRequest struct {
		Status               *models.SprintTaskStatus `json:"status"`
		CompletionPercentage *int                     `json:"completion_percentage"`
		AssignedTo           *string                  `json:"assigned_to"`
		BlockedReason        *string                  `json:"blocked_reason"`
		ActualHours          *int                     `json:"actual_hours"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.sprintService.UpdateTask(taskID, services.UpdateSprintTaskInput{
		Status:               req.Status,
		CompletionPercentage: req.CompletionPercentage,
		AssignedTo:           req.AssignedTo,
		BlockedReason:        req.BlockedReason,
		ActualHours:          req.ActualHours,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func respondSprintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSprintNotFound),
		errors.Is(err, services.ErrSprintTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidSprintPhase),
		errors.Is(err, services.ErrInvalidSprintDays),
		errors.Is(err, services.ErrInvalidSprintDuration),
		errors.Is(err, services.ErrInvalidSprintTaskType),
		errors.Is(err, services.ErrSprintTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
