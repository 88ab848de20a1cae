package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paperplanes/pm-tool/internal/dto"
	apierrors "github.com/paperplanes/pm-tool/internal/errors"
	"github.com/paperplanes/pm-tool/internal/middleware"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/services"
)

// DeliverableHandler covers deliverables, methodology tasks and the two
// dependency graphs of a project.
type DeliverableHandler struct {
	deliverableService *services.DeliverableService
	dependencyService  *services.DependencyService
}

// NewDeliverableHandler creates a new DeliverableHandler.
func NewDeliverableHandler(deliverableService *services.DeliverableService, dependencyService *services.DependencyService) *DeliverableHandler {
	return &DeliverableHandler{
		deliverableService: deliverableService,
		dependencyService:  dependencyService,
	}
}

// ListDeliverables returns a project's deliverables.
func (h *DeliverableHandler) ListDeliverables(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	deliverables, err := h.deliverableService.ListDeliverables(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch deliverables")
		return
	}

	items := make([]dto.DeliverableDTO, len(deliverables))
	for i, d := range deliverables {
		items[i] = dto.ToDeliverableDTO(d)
	}
	c.JSON(http.StatusOK, gin.H{"deliverables": items})
}

// CreateDeliverable adds a deliverable to a project.
func (h *DeliverableHandler) CreateDeliverable(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateDeliverableRequest struct {
		Number                string   `json:"number"`
		Title                 string   `json:"title" binding:"required"`
		Description           string   `json:"description"`
		SelectedMethodologies []string `json:"selected_methodologies"`
	}

	var req CreateDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	deliverable, err := h.deliverableService.CreateDeliverable(project.ID, services.CreateDeliverableInput{
		Number:                req.Number,
		Title:                 req.Title,
		Description:           req.Description,
		SelectedMethodologies: req.SelectedMethodologies,
	})
	if err != nil {
		respondDeliverableError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDeliverableDTO(*deliverable))
}

// ListMethodologyTasks returns a project's methodology tasks.
func (h *DeliverableHandler) ListMethodologyTasks(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	tasks, err := h.deliverableService.ListMethodologyTasks(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch methodology tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateMethodologyTask decomposes a deliverable into one executable step.
func (h *DeliverableHandler) CreateMethodologyTask(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateTaskRequest struct {
		DeliverableID   uint64 `json:"deliverable_id" binding:"required"`
		MethodologyCode string `json:"methodology_code"`
		Title           string `json:"title" binding:"required"`
		Description     string `json:"description"`
		Order           int    `json:"order"`
		EstimatedHours  int    `json:"estimated_hours"`
		AssignedTo      string `json:"assigned_to"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.deliverableService.CreateMethodologyTask(project.ID, services.CreateMethodologyTaskInput{
		DeliverableID:   req.DeliverableID,
		MethodologyCode: req.MethodologyCode,
		Title:           req.Title,
		Description:     req.Description,
		Order:           req.Order,
		EstimatedHours:  req.EstimatedHours,
		AssignedTo:      req.AssignedTo,
	})
	if err != nil {
		respondDeliverableError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

type addDependencyRequest struct {
	PredecessorID uint64                `json:"predecessor_id" binding:"required"`
	SuccessorID   uint64                `json:"successor_id" binding:"required"`
	Type          models.DependencyType `json:"type"`
	LagDays       int                   `json:"lag_days"`
}

// ListDependencies returns a project's deliverable-level edges.
func (h *DeliverableHandler) ListDependencies(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	deps, err := h.dependencyService.ListDeliverableDependencies(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch dependencies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"dependencies": deps})
}

// AddDependency creates a deliverable-level precedence edge.
func (h *DeliverableHandler) AddDependency(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var req addDependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dep, err := h.dependencyService.AddDeliverableDependency(services.AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: req.PredecessorID,
		SuccessorID:   req.SuccessorID,
		Type:          req.Type,
		LagDays:       req.LagDays,
	})
	if err != nil {
		respondDeliverableError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dep)
}

// ListTaskDependencies returns a project's task-level edges.
func (h *DeliverableHandler) ListTaskDependencies(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	deps, err := h.dependencyService.ListMethodologyTaskDependencies(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch dependencies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"dependencies": deps})
}

// AddTaskDependency creates a methodology-task-level precedence edge.
func (h *DeliverableHandler) AddTaskDependency(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var req addDependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dep, err := h.dependencyService.AddMethodologyTaskDependency(services.AddDependencyInput{
		ProjectID:     project.ID,
		PredecessorID: req.PredecessorID,
		SuccessorID:   req.SuccessorID,
		Type:          req.Type,
		LagDays:       req.LagDays,
	})
	if err != nil {
		respondDeliverableError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dep)
}

func respondDeliverableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDeliverableNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDependencyCycle):
		apierrors.UnprocessableEntity(c, err.Error())
	case errors.Is(err, services.ErrSelfDependency),
		errors.Is(err, services.ErrCrossProjectDep),
		errors.Is(err, services.ErrInvalidDependencyType),
		errors.Is(err, services.ErrDeliverableTitleRequired),
		errors.Is(err, services.ErrUnknownMethodologyCode):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
