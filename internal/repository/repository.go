package repository

import (
	"errors"

	"github.com/paperplanes/pm-tool/internal/models"
)

// ErrDuplicateProjectCode marks a uniqueness violation on project_code.
// The caller should request a fresh code and retry.
var ErrDuplicateProjectCode = errors.New("project code already exists")

// DependencySpec declares a precedence edge between deliverables of a
// project graph before their IDs are known: indices refer to positions
// in the Deliverables slice.
type DependencySpec struct {
	PredecessorIndex int
	SuccessorIndex   int
	Type             models.DependencyType
	LagDays          int
}

// ProjectGraph bundles everything inserted atomically when a project is
// created.
type ProjectGraph struct {
	Project       *models.Project
	Documents     []models.ProjectDocument
	PaymentStages []models.PaymentStage
	Deliverables  []models.Deliverable
	Dependencies  []DependencySpec
	Selections    []models.MethodologySelection
	Checklist     []models.SetupChecklistItem
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status   *models.ProjectStatus
	Group    *models.ProjectGroup
	Client   string
	Page     int
	PageSize int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateGraph inserts a project and all of its dependent rows in a
	// single transaction.
	CreateGraph(graph *ProjectGraph) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// FindByCode finds a project by its unique code
	FindByCode(code string) (*models.Project, error)

	// ExistsByClient reports whether a project for the client exists
	ExistsByClient(client string) (bool, error)

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project; dependent rows go with it via FK cascade
	Delete(id uint64) error

	// LastProjectNumber returns the highest sequence number among stored
	// project codes, 0 when none parse
	LastProjectNumber() (int, error)

	// FindPaymentStage finds one payment stage of a project
	FindPaymentStage(projectID uint64, stageNumber int) (*models.PaymentStage, error)

	// UpdatePaymentStage saves a payment stage
	UpdatePaymentStage(stage *models.PaymentStage) error

	// FindSelection finds one methodology selection of a project
	FindSelection(projectID, selectionID uint64) (*models.MethodologySelection, error)

	// UpdateSelection saves a methodology selection
	UpdateSelection(selection *models.MethodologySelection) error

	// ListSelections lists a project's methodology selections
	ListSelections(projectID uint64) ([]models.MethodologySelection, error)
}

// MethodologyRepository reads the fixed catalog
type MethodologyRepository interface {
	// List returns the full catalog ordered by code
	List() ([]models.Methodology, error)

	// FindByCode finds a catalog entry by its БПМ/БПА code
	FindByCode(code string) (*models.Methodology, error)
}

// DeliverableRepository covers deliverables, methodology tasks and both
// dependency tables
type DeliverableRepository interface {
	CreateDeliverable(d *models.Deliverable) error
	FindDeliverable(id uint64) (*models.Deliverable, error)
	ListDeliverables(projectID uint64) ([]models.Deliverable, error)

	CreateDependency(dep *models.TaskDependency) error
	ListDependencies(projectID uint64) ([]models.TaskDependency, error)

	CreateMethodologyTask(t *models.MethodologyTask) error
	FindMethodologyTask(id uint64) (*models.MethodologyTask, error)
	ListMethodologyTasks(projectID uint64) ([]models.MethodologyTask, error)

	CreateMethodologyTaskDependency(dep *models.MethodologyTaskDependency) error
	ListMethodologyTaskDependencies(projectID uint64) ([]models.MethodologyTaskDependency, error)
}

// ChecklistRepository defines the interface for setup checklist access
type ChecklistRepository interface {
	// ListByProject returns a project's checklist ordered by item number
	ListByProject(projectID uint64) ([]models.SetupChecklistItem, error)

	// FindItem finds one checklist item by project and item number
	FindItem(projectID uint64, itemNumber int) (*models.SetupChecklistItem, error)

	// Update saves a checklist item
	Update(item *models.SetupChecklistItem) error
}

// SprintRepository defines the interface for sprint data access
type SprintRepository interface {
	Create(sprint *models.Sprint) error
	FindByID(id uint64, preload ...string) (*models.Sprint, error)
	ListByProject(projectID uint64) ([]models.Sprint, error)
	Update(sprint *models.Sprint) error

	CreateTask(task *models.SprintTask) error
	ListTasks(sprintID uint64) ([]models.SprintTask, error)
	FindTask(id uint64) (*models.SprintTask, error)
	UpdateTask(task *models.SprintTask) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
}
