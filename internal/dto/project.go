package dto

import (
	"time"

	"github.com/paperplanes/pm-tool/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64 `json:"id"`
	ProjectCode string `json:"project_code"`
	Name        string `json:"name"`
	Client      string `json:"client"`

	Status models.ProjectStatus `json:"status"`
	Group  models.ProjectGroup  `json:"group"`
	Type   models.ProjectType   `json:"project_type"`

	ContractSignedDate *time.Time `json:"contract_signed_date,omitempty"`
	PrepaymentDate     time.Time  `json:"prepayment_date"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`

	BudgetTotal    float64 `json:"budget_total"`
	BudgetCurrency string  `json:"budget_currency"`
	VATIncluded    bool    `json:"vat_included"`
	VATRate        int     `json:"vat_rate"`
	DurationWeeks  int     `json:"duration_weeks"`

	SalesNotes       string `json:"sales_notes,omitempty"`
	ProjectSpecifics string `json:"project_specifics,omitempty"`

	DriveFolderURL string `json:"drive_folder_url,omitempty"`
	VaultPath      string `json:"vault_path,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Documents     []DocumentDTO                 `json:"documents,omitempty"`
	PaymentStages []PaymentStageDTO             `json:"payment_stages,omitempty"`
	Deliverables  []DeliverableDTO              `json:"deliverables,omitempty"`
	Selections    []models.MethodologySelection `json:"selections,omitempty"`
}

// ProjectListItemDTO represents a project in list responses (minimal data)
type ProjectListItemDTO struct {
	ID          uint64               `json:"id"`
	ProjectCode string               `json:"project_code"`
	Name        string               `json:"name"`
	Client      string               `json:"client"`
	Status      models.ProjectStatus `json:"status"`
	Group       models.ProjectGroup  `json:"group"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	BudgetTotal float64              `json:"budget_total"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectListItemDTO `json:"projects"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalCount int64                `json:"total_count"`
	TotalPages int                  `json:"total_pages"`
}

// DocumentDTO represents an uploaded document and its extraction state
type DocumentDTO struct {
	ID              uint64                  `json:"id"`
	Type            models.DocumentType     `json:"type"`
	FileName        string                  `json:"file_name"`
	Status          models.ProcessingStatus `json:"ai_processing_status"`
	ConfidenceScore int                     `json:"ai_confidence_score"`
	ExtractedData   *models.ExtractedData   `json:"extracted_data,omitempty"`
	UploadedAt      time.Time               `json:"uploaded_at"`
	ProcessedAt     *time.Time              `json:"processed_at,omitempty"`
}

// PaymentStageDTO represents one contracted payment stage
type PaymentStageDTO struct {
	ID                  uint64               `json:"id"`
	StageNumber         int                  `json:"stage_number"`
	Amount              float64              `json:"amount"`
	Description         string               `json:"description"`
	Trigger             string               `json:"trigger"`
	Status              models.PaymentStatus `json:"status"`
	InvoiceSentDate     *time.Time           `json:"invoice_sent_date,omitempty"`
	PaymentReceivedDate *time.Time           `json:"payment_received_date,omitempty"`
	IsFromContract      bool                 `json:"is_from_contract"`
}

// DeliverableDTO represents one contracted scope line-item
type DeliverableDTO struct {
	ID                     uint64   `json:"id"`
	Number                 string   `json:"number"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	SuggestedMethodologies []string `json:"suggested_methodologies"`
	SelectedMethodologies  []string `json:"selected_methodologies"`
	IsFromContract         bool     `json:"is_from_contract"`
}

// CreateProjectResponse is the creation outcome together with any
// post-commit warnings.
type CreateProjectResponse struct {
	Project  ProjectDTO `json:"project"`
	Warnings []string   `json:"warnings,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}
}

// ToDocumentDTO converts a ProjectDocument model to DocumentDTO
func ToDocumentDTO(doc models.ProjectDocument) DocumentDTO {
	return DocumentDTO{
		ID:              doc.ID,
		Type:            doc.Type,
		FileName:        doc.FileName,
		Status:          doc.Status,
		ConfidenceScore: doc.ConfidenceScore,
		ExtractedData:   doc.ExtractedData,
		UploadedAt:      doc.UploadedAt,
		ProcessedAt:     doc.ProcessedAt,
	}
}

// ToPaymentStageDTO converts a PaymentStage model to PaymentStageDTO
func ToPaymentStageDTO(stage models.PaymentStage) PaymentStageDTO {
	return PaymentStageDTO{
		ID:                  stage.ID,
		StageNumber:         stage.StageNumber,
		Amount:              stage.Amount,
		Description:         stage.Description,
		Trigger:             stage.Trigger,
		Status:              stage.Status,
		InvoiceSentDate:     stage.InvoiceSentDate,
		PaymentReceivedDate: stage.PaymentReceivedDate,
		IsFromContract:      stage.IsFromContract,
	}
}

// ToDeliverableDTO converts a Deliverable model to DeliverableDTO
func ToDeliverableDTO(d models.Deliverable) DeliverableDTO {
	return DeliverableDTO{
		ID:                     d.ID,
		Number:                 d.Number,
		Title:                  d.Title,
		Description:            d.Description,
		SuggestedMethodologies: d.SuggestedMethodologies,
		SelectedMethodologies:  d.SelectedMethodologies,
		IsFromContract:         d.IsFromContract,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:                 project.ID,
		ProjectCode:        project.ProjectCode,
		Name:               project.Name,
		Client:             project.Client,
		Status:             project.Status,
		Group:              project.Group,
		Type:               project.Type,
		ContractSignedDate: project.ContractSignedDate,
		PrepaymentDate:     project.PrepaymentDate,
		StartDate:          project.StartDate,
		EndDate:            project.EndDate,
		BudgetTotal:        project.BudgetTotal,
		BudgetCurrency:     project.BudgetCurrency,
		VATIncluded:        project.VATIncluded,
		VATRate:            project.VATRate,
		DurationWeeks:      project.DurationWeeks,
		SalesNotes:         project.SalesNotes,
		ProjectSpecifics:   project.ProjectSpecifics,
		DriveFolderURL:     project.DriveFolderURL,
		VaultPath:          project.VaultPath,
		CreatedBy:          project.CreatedBy,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}

	// Include relations if preloaded
	if len(project.Documents) > 0 {
		dto.Documents = make([]DocumentDTO, len(project.Documents))
		for i, doc := range project.Documents {
			dto.Documents[i] = ToDocumentDTO(doc)
		}
	}
	if len(project.PaymentStages) > 0 {
		dto.PaymentStages = make([]PaymentStageDTO, len(project.PaymentStages))
		for i, stage := range project.PaymentStages {
			dto.PaymentStages[i] = ToPaymentStageDTO(stage)
		}
	}
	if len(project.Deliverables) > 0 {
		dto.Deliverables = make([]DeliverableDTO, len(project.Deliverables))
		for i, d := range project.Deliverables {
			dto.Deliverables[i] = ToDeliverableDTO(d)
		}
	}
	if len(project.Selections) > 0 {
		dto.Selections = project.Selections
	}

	return dto
}

// ToProjectListItemDTO converts a Project model to ProjectListItemDTO
func ToProjectListItemDTO(project models.Project) ProjectListItemDTO {
	return ProjectListItemDTO{
		ID:          project.ID,
		ProjectCode: project.ProjectCode,
		Name:        project.Name,
		Client:      project.Client,
		Status:      project.Status,
		Group:       project.Group,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		BudgetTotal: project.BudgetTotal,
		CreatedAt:   project.CreatedAt,
	}
}

// ToProjectListResponse converts a slice of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, page, pageSize int, totalCount int64) ProjectListResponse {
	items := make([]ProjectListItemDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectListItemDTO(project)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return ProjectListResponse{
		Projects:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
