package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paperplanes/pm-tool/internal/dto"
	apierrors "github.com/paperplanes/pm-tool/internal/errors"
	"github.com/paperplanes/pm-tool/internal/middleware"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"github.com/paperplanes/pm-tool/internal/services"
	"github.com/paperplanes/pm-tool/internal/utils"
)

// ProjectHandler coordinates project lifecycle HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	importService  *services.ImportService
	authService    *services.AuthService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, importService *services.ImportService, authService *services.AuthService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		importService:  importService,
		authService:    authService,
	}
}

const dateLayout = "2006-01-02"

// actorName resolves the authenticated user's display name for
// created_by stamps.
func (h *ProjectHandler) actorName(c *gin.Context) string {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		return ""
	}
	user, err := h.authService.GetUser(userID)
	if err != nil {
		return ""
	}
	return user.DisplayName
}

// ListProjects returns projects with optional status/group/client filters.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.ProjectFilter{
		Client:   c.Query("client"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ProjectStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("group"); raw != "" {
		group := models.ProjectGroup(raw)
		filter.Group = &group
	}

	projects, total, err := h.projectService.ListProjects(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Page, params.Limit, total))
}

// GetProject returns one project with its relations.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	loaded, err := h.projectService.GetProject(project.ID,
		"Documents", "PaymentStages", "Deliverables", "Selections", "Selections.Methodology")
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*loaded))
}

// GenerateCode produces the next project code for a client.
func (h *ProjectHandler) GenerateCode(c *gin.Context) {
	type GenerateCodeRequest struct {
		ClientName string `json:"client_name" binding:"required"`
	}

	var req GenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	code, err := h.projectService.GenerateCode(c.Request.Context(), req.ClientName)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, code)
}

// ExtractContract runs contract extraction over raw text and returns
// the structured payload for review; nothing is persisted.
func (h *ProjectHandler) ExtractContract(c *gin.Context) {
	type ExtractRequest struct {
		ContractText string `json:"contract_text" binding:"required"`
	}

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	data, err := h.projectService.ExtractContract(c.Request.Context(), req.ContractText)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Contract extraction failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, data)
}

// dependencyRequest declares a precedence edge between deliverables by
// their index in the extracted deliverable list.
type dependencyRequest struct {
	PredecessorIndex int                   `json:"predecessor_index"`
	SuccessorIndex   int                   `json:"successor_index"`
	Type             models.DependencyType `json:"type"`
	LagDays          int                   `json:"lag_days"`
}

// CreateProject runs the full creation workflow.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		ProjectCode        string                `json:"project_code" binding:"required"`
		Name               string                `json:"name" binding:"required"`
		Client             string                `json:"client" binding:"required"`
		Group              models.ProjectGroup   `json:"group" binding:"required"`
		Type               models.ProjectType    `json:"project_type"`
		StartDate          string                `json:"start_date" binding:"required"`
		EndDate            string                `json:"end_date" binding:"required"`
		ContractSignedDate string                `json:"contract_signed_date"`
		SalesNotes         string                `json:"sales_notes"`
		ProjectSpecifics   string                `json:"project_specifics"`
		ContractText       string                `json:"contract_text"`
		ContractFileName   string                `json:"contract_file_name"`
		ProposalFileName   string                `json:"proposal_file_name"`
		ExtractedData      *models.ExtractedData `json:"extracted_data"`
		Dependencies       []dependencyRequest   `json:"dependencies"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}
	var signedDate *time.Time
	if req.ContractSignedDate != "" {
		parsed, err := time.Parse(dateLayout, req.ContractSignedDate)
		if err != nil {
			apierrors.BadRequest(c, "contract_signed_date must be YYYY-MM-DD")
			return
		}
		signedDate = &parsed
	}

	deps := make([]repository.DependencySpec, len(req.Dependencies))
	for i, d := range req.Dependencies {
		deps[i] = repository.DependencySpec{
			PredecessorIndex: d.PredecessorIndex,
			SuccessorIndex:   d.SuccessorIndex,
			Type:             d.Type,
			LagDays:          d.LagDays,
		}
	}

	result, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		ProjectCode:        req.ProjectCode,
		Name:               req.Name,
		Client:             req.Client,
		Group:              req.Group,
		Type:               req.Type,
		StartDate:          startDate,
		EndDate:            endDate,
		ContractSignedDate: signedDate,
		SalesNotes:         req.SalesNotes,
		ProjectSpecifics:   req.ProjectSpecifics,
		ContractText:       req.ContractText,
		ContractFileName:   req.ContractFileName,
		ProposalFileName:   req.ProposalFileName,
		Extracted:          req.ExtractedData,
		Dependencies:       deps,
		CreatedBy:          h.actorName(c),
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateProjectResponse{
		Project:  dto.ToProjectDTO(*result.Project),
		Warnings: result.Warnings,
	})
}

// UpdateProject applies a partial update to a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type UpdateProjectRequest struct {
		Name             *string               `json:"name"`
		Status           *models.ProjectStatus `json:"status"`
		SalesNotes       *string               `json:"sales_notes"`
		ProjectSpecifics *string               `json:"project_specifics"`
		EndDate          *string               `json:"end_date"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{
		Name:             req.Name,
		Status:           req.Status,
		SalesNotes:       req.SalesNotes,
		ProjectSpecifics: req.ProjectSpecifics,
	}
	if req.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			apierrors.BadRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		input.EndDate = &parsed
	}

	updated, err := h.projectService.UpdateProject(project.ID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject removes a project and everything attached to it.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.projectService.DeleteProject(project.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ImportRegistry imports historical projects from the registry CSV
// uploaded as multipart form file "file".
func (h *ProjectHandler) ImportRegistry(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "CSV file is required")
		return
	}
	defer file.Close()

	stats, err := h.importService.ImportRegistry(file)
	if err != nil {
		apierrors.BadRequest(c, "Import failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListMethodologies returns the fixed research-method catalog.
func (h *ProjectHandler) ListMethodologies(c *gin.Context) {
	catalog, err := h.projectService.ListMethodologies()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch methodologies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"methodologies": catalog})
}

// ListSelections returns a project's methodology selections.
func (h *ProjectHandler) ListSelections(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	selections, err := h.projectService.ListSelections(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch selections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"selections": selections})
}

// UpdateSelection toggles or adjusts one methodology selection.
func (h *ProjectHandler) UpdateSelection(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	selectionID, err := strconv.ParseUint(c.Param("selectionId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid selection ID")
		return
	}

	type UpdateSelectionRequest struct {
		IsSelected  *bool   `json:"is_selected"`
		Quantity    *int    `json:"quantity"`
		Details     *string `json:"details"`
		EffortHours *int    `json:"effort_hours"`
	}

	var req UpdateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	selection, err := h.projectService.UpdateSelection(project.ID, selectionID, services.UpdateSelectionInput{
		IsSelected:  req.IsSelected,
		Quantity:    req.Quantity,
		Details:     req.Details,
		EffortHours: req.EffortHours,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, selection)
}

// ListPaymentStages returns a project's payment stages.
func (h *ProjectHandler) ListPaymentStages(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	loaded, err := h.projectService.GetProject(project.ID, "PaymentStages")
	if err != nil {
		respondProjectError(c, err)
		return
	}

	stages := make([]dto.PaymentStageDTO, len(loaded.PaymentStages))
	for i, stage := range loaded.PaymentStages {
		stages[i] = dto.ToPaymentStageDTO(stage)
	}

	c.JSON(http.StatusOK, gin.H{"payment_stages": stages})
}

// AdvancePaymentStage moves one payment stage forward.
func (h *ProjectHandler) AdvancePaymentStage(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	stageNumber, err := strconv.Atoi(c.Param("stageNumber"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid stage number")
		return
	}

	type AdvanceRequest struct {
		Status models.PaymentStatus `json:"status" binding:"required"`
	}

	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	stage, err := h.projectService.AdvancePaymentStage(project.ID, stageNumber, req.Status)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentStageDTO(*stage))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPaymentStageNotFound),
		errors.Is(err, services.ErrSelectionNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectCodeTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidPaymentTransition):
		apierrors.UnprocessableEntity(c, err.Error())
	case errors.Is(err, services.ErrCodeGeneration):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrClientRequired),
		errors.Is(err, services.ErrInvalidProjectCode),
		errors.Is(err, services.ErrInvalidProjectDates),
		errors.Is(err, services.ErrInvalidProjectGroup),
		errors.Is(err, services.ErrInvalidProjectType),
		errors.Is(err, services.ErrInvalidDependencySpec):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
