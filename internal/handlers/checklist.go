package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paperplanes/pm-tool/internal/dto"
	apierrors "github.com/paperplanes/pm-tool/internal/errors"
	"github.com/paperplanes/pm-tool/internal/middleware"
	"github.com/paperplanes/pm-tool/internal/services"
)

// ChecklistHandler serves the per-project setup checklist.
type ChecklistHandler struct {
	checklistService *services.ChecklistService
	authService      *services.AuthService
}

// NewChecklistHandler creates a new ChecklistHandler.
func NewChecklistHandler(checklistService *services.ChecklistService, authService *services.AuthService) *ChecklistHandler {
	return &ChecklistHandler{
		checklistService: checklistService,
		authService:      authService,
	}
}

// GetChecklist returns a project's checklist with progress counters.
func (h *ChecklistHandler) GetChecklist(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	progress, err := h.checklistService.GetChecklist(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch checklist")
		return
	}

	c.JSON(http.StatusOK,
		dto.ToChecklistResponse(progress.Items, progress.Completed, progress.Approved, progress.Done))
}

// CompleteItem marks one checklist item completed by the current user.
func (h *ChecklistHandler) CompleteItem(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	itemNumber, err := strconv.Atoi(c.Param("itemNumber"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid item number")
		return
	}

	type CompleteRequest struct {
		ProofURL    string `json:"proof_url"`
		ProofFileID string `json:"proof_file_id"`
		Notes       string `json:"notes"`
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.checklistService.CompleteItem(project.ID, itemNumber, services.CompleteItemInput{
		CompletedBy: h.currentDisplayName(c),
		ProofURL:    req.ProofURL,
		ProofFileID: req.ProofFileID,
		Notes:       req.Notes,
	})
	if err != nil {
		respondChecklistError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChecklistItemDTO(*item))
}

// ApproveItem signs a completed item off. The approver name must be on
// the fixed approver list.
func (h *ChecklistHandler) ApproveItem(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	itemNumber, err := strconv.Atoi(c.Param("itemNumber"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid item number")
		return
	}

	approvedBy := h.currentDisplayName(c)

	item, err := h.checklistService.ApproveItem(project.ID, itemNumber, approvedBy)
	if err != nil {
		respondChecklistError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChecklistItemDTO(*item))
}

func (h *ChecklistHandler) currentDisplayName(c *gin.Context) string {
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

func respondChecklistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChecklistItemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotAnApprover):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotCompleted),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrAlreadyApproved):
		apierrors.UnprocessableEntity(c, err.Error())
	case errors.Is(err, services.ErrAmbiguousProof),
		errors.Is(err, services.ErrActorRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
