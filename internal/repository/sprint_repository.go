package repository

import (
	"github.com/paperplanes/pm-tool/internal/models"
	"gorm.io/gorm"
)

// GormSprintRepository is a GORM implementation of SprintRepository
type GormSprintRepository struct {
	db *gorm.DB
}

// NewSprintRepository creates a new SprintRepository
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &GormSprintRepository{db: db}
}

func (r *GormSprintRepository) Create(sprint *models.Sprint) error {
	return r.db.Create(sprint).Error
}

func (r *GormSprintRepository) FindByID(id uint64, preload ...string) (*models.Sprint, error) {
	var sprint models.Sprint
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&sprint, id).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (r *GormSprintRepository) ListByProject(projectID uint64) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := r.db.Where("project_id = ?", projectID).Order("sprint_number").Find(&sprints).Error
	return sprints, err
}

func (r *GormSprintRepository) Update(sprint *models.Sprint) error {
	return r.db.Save(sprint).Error
}

func (r *GormSprintRepository) CreateTask(task *models.SprintTask) error {
	return r.db.Create(task).Error
}

func (r *GormSprintRepository) ListTasks(sprintID uint64) ([]models.SprintTask, error) {
	var tasks []models.SprintTask
	err := r.db.Where("sprint_id = ?", sprintID).Order("task_order").Find(&tasks).Error
	return tasks, err
}

func (r *GormSprintRepository) FindTask(id uint64) (*models.SprintTask, error) {
	var task models.SprintTask
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormSprintRepository) UpdateTask(task *models.SprintTask) error {
	return r.db.Save(task).Error
}
