package repository

import (
	"github.com/paperplanes/pm-tool/internal/models"
	"gorm.io/gorm"
)

// GormChecklistRepository is a GORM implementation of ChecklistRepository
type GormChecklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository creates a new ChecklistRepository
func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &GormChecklistRepository{db: db}
}

// ListByProject returns a project's checklist ordered by item number
func (r *GormChecklistRepository) ListByProject(projectID uint64) ([]models.SetupChecklistItem, error) {
	var items []models.SetupChecklistItem
	err := r.db.Where("project_id = ?", projectID).Order("item_number").Find(&items).Error
	return items, err
}

// FindItem finds one checklist item by project and item number
func (r *GormChecklistRepository) FindItem(projectID uint64, itemNumber int) (*models.SetupChecklistItem, error) {
	var item models.SetupChecklistItem
	if err := r.db.Where("project_id = ? AND item_number = ?", projectID, itemNumber).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update saves a checklist item
func (r *GormChecklistRepository) Update(item *models.SetupChecklistItem) error {
	return r.db.Save(item).Error
}

// GormMethodologyRepository reads the fixed catalog
type GormMethodologyRepository struct {
	db *gorm.DB
}

// NewMethodologyRepository creates a new MethodologyRepository
func NewMethodologyRepository(db *gorm.DB) MethodologyRepository {
	return &GormMethodologyRepository{db: db}
}

// List returns the full catalog ordered by id (seed order: БПМ then БПА)
func (r *GormMethodologyRepository) List() ([]models.Methodology, error) {
	var methodologies []models.Methodology
	err := r.db.Order("id").Find(&methodologies).Error
	return methodologies, err
}

// FindByCode finds a catalog entry by its БПМ/БПА code
func (r *GormMethodologyRepository) FindByCode(code string) (*models.Methodology, error) {
	var m models.Methodology
	if err := r.db.Where("code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
