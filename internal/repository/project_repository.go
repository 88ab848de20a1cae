package repository

import (
	"strings"

	"github.com/paperplanes/pm-tool/internal/database"
	"github.com/paperplanes/pm-tool/internal/models"
	"github.com/paperplanes/pm-tool/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateGraph inserts the project row plus all dependent rows in one
// transaction. Deliverable IDs are assigned mid-transaction so declared
// dependency specs can be resolved from slice indices to row IDs.
func (r *GormProjectRepository) CreateGraph(graph *ProjectGraph) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(graph.Project).Error; err != nil {
			return err
		}
		projectID := graph.Project.ID

		for i := range graph.Documents {
			graph.Documents[i].ProjectID = projectID
		}
		if len(graph.Documents) > 0 {
			if err := tx.Create(&graph.Documents).Error; err != nil {
				return err
			}
		}

		for i := range graph.PaymentStages {
			graph.PaymentStages[i].ProjectID = projectID
		}
		if len(graph.PaymentStages) > 0 {
			if err := tx.Create(&graph.PaymentStages).Error; err != nil {
				return err
			}
		}

		for i := range graph.Deliverables {
			graph.Deliverables[i].ProjectID = projectID
		}
		if len(graph.Deliverables) > 0 {
			if err := tx.Create(&graph.Deliverables).Error; err != nil {
				return err
			}
		}

		for _, spec := range graph.Dependencies {
			dep := models.TaskDependency{
				ProjectID:     projectID,
				PredecessorID: graph.Deliverables[spec.PredecessorIndex].ID,
				SuccessorID:   graph.Deliverables[spec.SuccessorIndex].ID,
				Type:          spec.Type,
				LagDays:       spec.LagDays,
			}
			if err := tx.Create(&dep).Error; err != nil {
				return err
			}
		}

		for i := range graph.Selections {
			graph.Selections[i].ProjectID = projectID
		}
		if len(graph.Selections) > 0 {
			if err := tx.Create(&graph.Selections).Error; err != nil {
				return err
			}
		}

		for i := range graph.Checklist {
			graph.Checklist[i].ProjectID = projectID
		}
		if len(graph.Checklist) > 0 {
			if err := tx.Create(&graph.Checklist).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil && isDuplicateKeyError(err) {
		return ErrDuplicateProjectCode
	}
	return err
}

// isDuplicateKeyError matches uniqueness violations across the drivers
// in use (mysql 1062, sqlite in tests).
func isDuplicateKeyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// FindByCode finds a project by its unique code
func (r *GormProjectRepository) FindByCode(code string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("project_code = ?", code).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ExistsByClient reports whether any project for the client exists
func (r *GormProjectRepository) ExistsByClient(client string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("client = ?", client).Count(&count).Error
	return count > 0, err
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Group != nil {
		query = query.Where("`group` = ?", *filter.Group)
	}
	if filter.Client != "" {
		query = query.Where("client = ?", filter.Client)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (filter.Page - 1) * filter.PageSize,
			Limit:  filter.PageSize,
		}))
	}

	if err := listQuery.Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project. Dependent rows are declared with cascading
// foreign keys; the explicit child deletes cover test databases where FK
// enforcement is off.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.SprintTask{},
			&models.Sprint{},
			&models.SetupChecklistItem{},
			&models.MethodologyTaskDependency{},
			&models.MethodologyTask{},
			&models.TaskDependency{},
			&models.Deliverable{},
			&models.MethodologySelection{},
			&models.PaymentStage{},
			&models.ProjectDocument{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// LastProjectNumber returns the highest numeric prefix among stored
// project codes. Codes that do not parse (e.g. registry imports) are
// ignored.
func (r *GormProjectRepository) LastProjectNumber() (int, error) {
	var codes []string
	if err := r.db.Model(&models.Project{}).Pluck("project_code", &codes).Error; err != nil {
		return 0, err
	}

	last := 0
	for _, code := range codes {
		number, _, _, err := utils.ParseProjectCode(code)
		if err != nil {
			continue
		}
		if number > last {
			last = number
		}
	}
	return last, nil
}

// FindPaymentStage finds one payment stage of a project
func (r *GormProjectRepository) FindPaymentStage(projectID uint64, stageNumber int) (*models.PaymentStage, error) {
	var stage models.PaymentStage
	if err := r.db.Where("project_id = ? AND stage_number = ?", projectID, stageNumber).
		First(&stage).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

// UpdatePaymentStage saves a payment stage
func (r *GormProjectRepository) UpdatePaymentStage(stage *models.PaymentStage) error {
	return r.db.Save(stage).Error
}

// FindSelection finds one methodology selection of a project
func (r *GormProjectRepository) FindSelection(projectID, selectionID uint64) (*models.MethodologySelection, error) {
	var selection models.MethodologySelection
	if err := r.db.Where("project_id = ? AND id = ?", projectID, selectionID).
		First(&selection).Error; err != nil {
		return nil, err
	}
	return &selection, nil
}

// UpdateSelection saves a methodology selection
func (r *GormProjectRepository) UpdateSelection(selection *models.MethodologySelection) error {
	return r.db.Save(selection).Error
}

// ListSelections lists a project's methodology selections with catalog
// entries preloaded
func (r *GormProjectRepository) ListSelections(projectID uint64) ([]models.MethodologySelection, error) {
	var selections []models.MethodologySelection
	err := r.db.Where("project_id = ?", projectID).
		Preload("Methodology").
		Find(&selections).Error
	return selections, err
}
