package repository

import (
	"github.com/paperplanes/pm-tool/internal/models"
	"gorm.io/gorm"
)

// GormDeliverableRepository is a GORM implementation of DeliverableRepository
type GormDeliverableRepository struct {
	db *gorm.DB
}

// NewDeliverableRepository creates a new DeliverableRepository
func NewDeliverableRepository(db *gorm.DB) DeliverableRepository {
	return &GormDeliverableRepository{db: db}
}

func (r *GormDeliverableRepository) CreateDeliverable(d *models.Deliverable) error {
	return r.db.Create(d).Error
}

func (r *GormDeliverableRepository) FindDeliverable(id uint64) (*models.Deliverable, error) {
	var d models.Deliverable
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDeliverableRepository) ListDeliverables(projectID uint64) ([]models.Deliverable, error) {
	var deliverables []models.Deliverable
	err := r.db.Where("project_id = ?", projectID).Order("id").Find(&deliverables).Error
	return deliverables, err
}

func (r *GormDeliverableRepository) CreateDependency(dep *models.TaskDependency) error {
	return r.db.Create(dep).Error
}

func (r *GormDeliverableRepository) ListDependencies(projectID uint64) ([]models.TaskDependency, error) {
	var deps []models.TaskDependency
	err := r.db.Where("project_id = ?", projectID).Find(&deps).Error
	return deps, err
}

func (r *GormDeliverableRepository) CreateMethodologyTask(t *models.MethodologyTask) error {
	return r.db.Create(t).Error
}

func (r *GormDeliverableRepository) FindMethodologyTask(id uint64) (*models.MethodologyTask, error) {
	var t models.MethodologyTask
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormDeliverableRepository) ListMethodologyTasks(projectID uint64) ([]models.MethodologyTask, error) {
	var tasks []models.MethodologyTask
	err := r.db.Where("project_id = ?", projectID).
		Order("deliverable_id, task_order").
		Find(&tasks).Error
	return tasks, err
}

func (r *GormDeliverableRepository) CreateMethodologyTaskDependency(dep *models.MethodologyTaskDependency) error {
	return r.db.Create(dep).Error
}

func (r *GormDeliverableRepository) ListMethodologyTaskDependencies(projectID uint64) ([]models.MethodologyTaskDependency, error) {
	var deps []models.MethodologyTaskDependency
	err := r.db.Where("project_id = ?", projectID).Find(&deps).Error
	return deps, err
}
