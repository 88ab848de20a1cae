package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/paperplanes/pm-tool/internal/constants"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound          = errors.New("project not found")
	ErrProjectNameRequired      = errors.New("project name is required")
	ErrClientRequired           = errors.New("client name is required")
	ErrInvalidProjectCode       = errors.New("project code must match NNNN.AAA.slug")
	ErrProjectCodeTaken         = errors.New("project code already taken, request a new one and retry")
	ErrInvalidProjectDates      = errors.New("start date must not be after end date")
	ErrInvalidProjectGroup      = errors.New("group must be left or right")
	ErrInvalidProjectType       = errors.New("project type must be new or existing")
	ErrInvalidDependencySpec    = errors.New("invalid dependency declaration")
	ErrInvalidPaymentTransition = errors.New("payment status can only move forward")
	ErrPaymentStageNotFound     = errors.New("payment stage not found")
	ErrSelectionNotFound        = errors.New("methodology selection not found")
	ErrMethodologyNotFound      = errors.New("methodology not found")
	ErrCodeGeneration           = errors.New("project code generation failed")
)

// ProjectService implements the project lifecycle: code generation,
// contract extraction, the single-transaction creation workflow and the
// post-commit artifact phase (vault files plus remote mirror).
type ProjectService struct {
	projectRepo     repository.ProjectRepository
	methodologyRepo repository.MethodologyRepository
	codeGen         CodeGenerator
	extractor       ContractExtractor
	docGen          DocumentGenerator
	vault           *VaultGenerator
	store           FolderStore
}

// NewProjectService creates a new ProjectService. store may be nil when
// remote mirroring is not configured.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	methodologyRepo repository.MethodologyRepository,
	codeGen CodeGenerator,
	extractor ContractExtractor,
	docGen DocumentGenerator,
	vault *VaultGenerator,
	store FolderStore,
) *ProjectService {
	return &ProjectService{
		projectRepo:     projectRepo,
		methodologyRepo: methodologyRepo,
		codeGen:         codeGen,
		extractor:       extractor,
		docGen:          docGen,
		vault:           vault,
		store:           store,
	}
}

// GenerateCode produces the next project code for a client. The sequence
// number continues from the highest stored code, falling back to the
// registry baseline when the database is empty.
func (s *ProjectService) GenerateCode(ctx context.Context, clientName string) (*GeneratedCode, error) {
	if clientName == "" {
		return nil, ErrClientRequired
	}
	if s.codeGen == nil {
		return nil, fmt.Errorf("%w: AI service is not configured", ErrCodeGeneration)
	}

	lastNumber, err := s.projectRepo.LastProjectNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to read last project number: %w", err)
	}
	if lastNumber < constants.LastProjectNumber {
		lastNumber = constants.LastProjectNumber
	}

	code, err := s.codeGen.GenerateProjectCode(ctx, clientName, lastNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeGeneration, err)
	}
	if !models.ValidProjectCode(code.ProjectCode) {
		return nil, fmt.Errorf("%w: got malformed code %q", ErrCodeGeneration, code.ProjectCode)
	}

	if _, err := s.projectRepo.FindByCode(code.ProjectCode); err == nil {
		return nil, ErrProjectCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
	}

	return code, nil
}

// ExtractContract runs contract extraction over raw text.
func (s *ProjectService) ExtractContract(ctx context.Context, contractText string) (*models.ExtractedData, error) {
	if contractText == "" {
		return nil, errors.New("contract text is required")
	}
	if s.extractor == nil {
		return nil, errors.New("AI service is not configured")
	}
	return s.extractor.ExtractContractData(ctx, contractText)
}

// CreateProjectInput carries everything the creation workflow persists.
// Dependencies refer to Extracted.Deliverables by index because row IDs
// do not exist until the transaction commits.
type CreateProjectInput struct {
	ProjectCode        string
	Name               string
	Client             string
	Group              models.ProjectGroup
	Type               models.ProjectType
	StartDate          time.Time
	EndDate            time.Time
	ContractSignedDate *time.Time
	SalesNotes         string
	ProjectSpecifics   string

	ContractText     string
	ContractFileName string
	// ProposalFileName archives the commercial proposal as a second
	// document row; the proposal itself is never processed.
	ProposalFileName string
	Extracted        *models.ExtractedData

	Dependencies []repository.DependencySpec
	CreatedBy    string
}

// CreateProjectResult is the creation outcome. Warnings report failed
// post-commit steps; the project row itself is already committed.
type CreateProjectResult struct {
	Project  *models.Project
	Warnings []string
}

func (in *CreateProjectInput) validate() error {
	if in.Name == "" {
		return ErrProjectNameRequired
	}
	if in.Client == "" {
		return ErrClientRequired
	}
	if !models.ValidProjectCode(in.ProjectCode) {
		return ErrInvalidProjectCode
	}
	if in.Group != models.GroupLeft && in.Group != models.GroupRight {
		return ErrInvalidProjectGroup
	}
	if in.Type == "" {
		in.Type = models.ProjectTypeNew
	}
	if in.Type != models.ProjectTypeNew && in.Type != models.ProjectTypeExisting {
		return ErrInvalidProjectType
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.StartDate.After(in.EndDate) {
		return ErrInvalidProjectDates
	}

	deliverableCount := 0
	if in.Extracted != nil {
		deliverableCount = len(in.Extracted.Deliverables)
	}
	for i := range in.Dependencies {
		spec := &in.Dependencies[i]
		if spec.Type == "" {
			spec.Type = models.DependencyFinishToStart
		}
		if !models.ValidDependencyType(spec.Type) {
			return fmt.Errorf("%w: bad type %q", ErrInvalidDependencySpec, spec.Type)
		}
		if spec.PredecessorIndex == spec.SuccessorIndex {
			return fmt.Errorf("%w: self-dependency", ErrInvalidDependencySpec)
		}
		if spec.PredecessorIndex < 0 || spec.PredecessorIndex >= deliverableCount ||
			spec.SuccessorIndex < 0 || spec.SuccessorIndex >= deliverableCount {
			return fmt.Errorf("%w: deliverable index out of range", ErrInvalidDependencySpec)
		}
	}
	if depCycleInSpecs(in.Dependencies) {
		return fmt.Errorf("%w: declared edges form a cycle", ErrInvalidDependencySpec)
	}

	return nil
}

// depCycleInSpecs checks the declared index-based edges for a cycle by
// inserting them one at a time.
func depCycleInSpecs(specs []repository.DependencySpec) bool {
	var edges [][2]uint64
	for _, spec := range specs {
		pred := uint64(spec.PredecessorIndex)
		succ := uint64(spec.SuccessorIndex)
		if wouldCloseCycle(edges, pred, succ) {
			return true
		}
		edges = append(edges, [2]uint64{pred, succ})
	}
	return false
}

// CreateProject runs the creation workflow. One transaction persists the
// project row, the contract document, payment stages, deliverables with
// declared dependencies, catalog-resolved methodology selections and the
// ten-item setup checklist. Artifact generation and mirroring happen
// after commit and never roll the project back; their failures come back
// as warnings on the result.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*CreateProjectResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var warnings []string

	project := &models.Project{
		ProjectCode:        input.ProjectCode,
		Name:               input.Name,
		Client:             input.Client,
		Group:              input.Group,
		Type:               input.Type,
		Status:             models.ProjectStatusSetup,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		PrepaymentDate:     input.StartDate,
		ContractSignedDate: input.ContractSignedDate,
		SalesNotes:         input.SalesNotes,
		ProjectSpecifics:   input.ProjectSpecifics,
		CreatedBy:          input.CreatedBy,
	}

	graph := &repository.ProjectGraph{
		Project:      project,
		Dependencies: input.Dependencies,
	}

	if input.Extracted != nil {
		data := input.Extracted
		project.BudgetTotal = data.Budget.Total
		if data.Budget.Currency != "" {
			project.BudgetCurrency = data.Budget.Currency
		}
		project.VATIncluded = data.Budget.VATIncluded
		if data.Budget.VATRate > 0 {
			project.VATRate = data.Budget.VATRate
		}
		project.DurationWeeks = data.Duration.Weeks

		now := time.Now()
		graph.Documents = append(graph.Documents, models.ProjectDocument{
			Type:            models.DocumentTypeContract,
			FileName:        input.ContractFileName,
			ExtractedText:   input.ContractText,
			ExtractedData:   data,
			Status:          models.ProcessingCompleted,
			ConfidenceScore: data.ConfidenceScore,
			ProcessedAt:     &now,
		})

		for _, stage := range data.PaymentStages {
			graph.PaymentStages = append(graph.PaymentStages, models.PaymentStage{
				StageNumber:    stage.StageNumber,
				Amount:         stage.Amount,
				Description:    stage.Description,
				Trigger:        stage.Trigger,
				Status:         models.PaymentPending,
				IsFromContract: true,
			})
		}

		for _, deliv := range data.Deliverables {
			graph.Deliverables = append(graph.Deliverables, models.Deliverable{
				Number:                 deliv.Number,
				Title:                  deliv.Title,
				Description:            deliv.Description,
				SuggestedMethodologies: deliv.SuggestedMethodologies,
				IsFromContract:         true,
			})
		}

		for _, meth := range data.Methodologies {
			catalog, err := s.methodologyRepo.FindByCode(meth.Code)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					warnings = append(warnings,
						fmt.Sprintf("методология %s не найдена в каталоге и пропущена", meth.Code))
					continue
				}
				return nil, fmt.Errorf("failed to resolve methodology %s: %w", meth.Code, err)
			}
			effort := catalog.TypicalEffortHours
			if meth.Quantity > 1 {
				effort *= meth.Quantity
			}
			graph.Selections = append(graph.Selections, models.MethodologySelection{
				MethodologyID:  catalog.ID,
				IsSelected:     true,
				IsFromContract: true,
				Quantity:       meth.Quantity,
				Details:        meth.Details,
				EffortHours:    effort,
			})
		}
	} else if input.ContractText != "" {
		graph.Documents = append(graph.Documents, models.ProjectDocument{
			Type:          models.DocumentTypeContract,
			FileName:      input.ContractFileName,
			ExtractedText: input.ContractText,
			Status:        models.ProcessingPending,
		})
	}

	if input.ProposalFileName != "" {
		graph.Documents = append(graph.Documents, models.ProjectDocument{
			Type:     models.DocumentTypeProposal,
			FileName: input.ProposalFileName,
			Status:   models.ProcessingPending,
		})
	}

	for _, tmpl := range models.ChecklistTemplate {
		graph.Checklist = append(graph.Checklist, models.SetupChecklistItem{
			ItemNumber:  tmpl.ItemNumber,
			Title:       tmpl.Title,
			Description: tmpl.Description,
		})
	}

	if err := s.projectRepo.CreateGraph(graph); err != nil {
		if errors.Is(err, repository.ErrDuplicateProjectCode) {
			return nil, ErrProjectCodeTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	warnings = append(warnings, s.buildArtifacts(ctx, project, input)...)

	return &CreateProjectResult{Project: project, Warnings: warnings}, nil
}

// buildArtifacts is the post-commit phase: generate planning documents,
// write them to the vault, mirror the folder tree and files remotely,
// then persist the integration pointers. Every failure degrades to a
// warning.
func (s *ProjectService) buildArtifacts(ctx context.Context, project *models.Project, input CreateProjectInput) []string {
	var warnings []string

	var adminscale, pert string
	if input.Extracted != nil && s.docGen != nil {
		var err error
		adminscale, err = s.docGen.GenerateAdminscale(ctx, project, input.Extracted)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("не удалось сгенерировать админшкалу: %v", err))
			adminscale = fmt.Sprintf("# %s: %s\n\nАдминшкала не сгенерирована.\n", project.ProjectCode, project.Name)
		}
		pert, err = s.docGen.GeneratePERT(ctx, project, input.Extracted)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("не удалось сгенерировать PERT: %v", err))
			pert = fmt.Sprintf("# %s - PERT\n\nСтруктура не сгенерирована.\n", project.ProjectCode)
		}
	} else {
		adminscale = fmt.Sprintf("# %s: %s\n\nЗаполняется вручную.\n", project.ProjectCode, project.Name)
		pert = fmt.Sprintf("# %s - PERT\n", project.ProjectCode)
	}

	var files *GeneratedFiles
	if s.vault != nil {
		folder, generated, usedFallback, err := s.vault.Generate(project, adminscale, pert, input.ContractText)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("не удалось записать файлы проекта: %v", err))
		} else {
			project.VaultPath = folder
			files = generated
			if usedFallback {
				warnings = append(warnings,
					fmt.Sprintf("vault недоступен, файлы сохранены во временную папку %s", folder))
			}
		}
	}

	if s.store != nil {
		structure, err := BuildProjectFolderStructure(ctx, s.store, project)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("не удалось создать структуру папок в Drive: %v", err))
		} else {
			project.DriveFolderID = structure.ProjectFolder.ID
			project.DriveFolderURL = structure.ProjectFolder.URL
			warnings = append(warnings, s.mirrorFiles(ctx, structure, files)...)
		}
	}

	if project.VaultPath != "" || project.DriveFolderID != "" {
		if err := s.projectRepo.Update(project); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("не удалось сохранить ссылки на папки проекта: %v", err))
		}
	}

	for _, w := range warnings {
		log.Printf("project %s: %s", project.ProjectCode, w)
	}
	return warnings
}

func (s *ProjectService) mirrorFiles(ctx context.Context, structure *ProjectFolderStructure, files *GeneratedFiles) []string {
	if files == nil {
		return nil
	}

	var warnings []string
	upload := func(localPath, parentID, label string) {
		if localPath == "" || parentID == "" {
			return
		}
		if _, err := s.store.UploadFile(ctx, localPath, parentID, ""); err != nil {
			warnings = append(warnings, fmt.Sprintf("не удалось загрузить %s в Drive: %v", label, err))
		}
	}

	docsID := ""
	if f := structure.Subfolders["04-project-docs"]; f != nil {
		docsID = f.ID
	}
	inboxID := ""
	if f := structure.Subfolders["01-inbox"]; f != nil {
		inboxID = f.ID
	}

	// Adminscale and README live in the project folder root; only the
	// PERT goes to 04-project-docs and the contract to 01-inbox.
	upload(files.Adminscale, structure.ProjectFolder.ID, "админшкалу")
	upload(files.PERT, docsID, "PERT")
	upload(files.Contract, inboxID, "договор")
	upload(files.Readme, structure.ProjectFolder.ID, "README")
	return warnings
}

// GetProject loads a project with the given relations preloaded.
func (s *ProjectService) GetProject(id uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// ListProjects lists projects with filtering and pagination.
func (s *ProjectService) ListProjects(filter repository.ProjectFilter) ([]models.Project, int64, error) {
	return s.projectRepo.List(filter)
}

// UpdateProjectInput carries mutable project fields; nil means no change.
type UpdateProjectInput struct {
	Name             *string
	Status           *models.ProjectStatus
	SalesNotes       *string
	ProjectSpecifics *string
	EndDate          *time.Time
}

var validProjectStatuses = map[models.ProjectStatus]bool{
	models.ProjectStatusDraft:     true,
	models.ProjectStatusSetup:     true,
	models.ProjectStatusActive:    true,
	models.ProjectStatusCompleted: true,
	models.ProjectStatusArchived:  true,
}

// UpdateProject applies a partial update to a project.
func (s *ProjectService) UpdateProject(id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = *input.Name
	}
	if input.Status != nil {
		if !validProjectStatuses[*input.Status] {
			return nil, fmt.Errorf("invalid project status %q", *input.Status)
		}
		project.Status = *input.Status
	}
	if input.SalesNotes != nil {
		project.SalesNotes = *input.SalesNotes
	}
	if input.ProjectSpecifics != nil {
		project.ProjectSpecifics = *input.ProjectSpecifics
	}
	if input.EndDate != nil {
		if project.StartDate.After(*input.EndDate) {
			return nil, ErrInvalidProjectDates
		}
		project.EndDate = *input.EndDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project and all dependent rows.
func (s *ProjectService) DeleteProject(id uint64) error {
	if _, err := s.GetProject(id); err != nil {
		return err
	}
	return s.projectRepo.Delete(id)
}

// AdvancePaymentStage moves a payment stage to the next status. Only
// forward transitions are allowed; invoiced and paid transitions stamp
// their dates.
func (s *ProjectService) AdvancePaymentStage(projectID uint64, stageNumber int, next models.PaymentStatus) (*models.PaymentStage, error) {
	stage, err := s.projectRepo.FindPaymentStage(projectID, stageNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentStageNotFound
		}
		return nil, err
	}

	if !stage.Status.CanTransitionTo(next) {
		return nil, ErrInvalidPaymentTransition
	}

	now := time.Now()
	stage.Status = next
	switch next {
	case models.PaymentInvoiced:
		stage.InvoiceSentDate = &now
	case models.PaymentPaid:
		stage.PaymentReceivedDate = &now
	}

	if err := s.projectRepo.UpdatePaymentStage(stage); err != nil {
		return nil, fmt.Errorf("failed to update payment stage: %w", err)
	}
	return stage, nil
}

// ListSelections returns a project's methodology selections.
func (s *ProjectService) ListSelections(projectID uint64) ([]models.MethodologySelection, error) {
	return s.projectRepo.ListSelections(projectID)
}

// UpdateSelectionInput carries mutable selection fields; nil means no
// change.
type UpdateSelectionInput struct {
	IsSelected  *bool
	Quantity    *int
	Details     *string
	EffortHours *int
}

// UpdateSelection toggles or adjusts one methodology selection.
func (s *ProjectService) UpdateSelection(projectID, selectionID uint64, input UpdateSelectionInput) (*models.MethodologySelection, error) {
	selection, err := s.projectRepo.FindSelection(projectID, selectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSelectionNotFound
		}
		return nil, err
	}

	if input.IsSelected != nil {
		selection.IsSelected = *input.IsSelected
	}
	if input.Quantity != nil {
		selection.Quantity = *input.Quantity
	}
	if input.Details != nil {
		selection.Details = *input.Details
	}
	if input.EffortHours != nil {
		selection.EffortHours = *input.EffortHours
	}

	if err := s.projectRepo.UpdateSelection(selection); err != nil {
		return nil, fmt.Errorf("failed to update selection: %w", err)
	}
	return selection, nil
}

// ListMethodologies returns the fixed catalog.
func (s *ProjectService) ListMethodologies() ([]models.Methodology, error) {
	return s.methodologyRepo.List()
}
