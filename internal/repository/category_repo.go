package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// CategoryRepository defines persistence operations for assignment categories.
type CategoryRepository interface {
	Exists(ctx context.Context, classID uint, name string) (bool, error)
	GetByName(ctx context.Context, classID uint, name string) (models.AssignmentCategory, error)
	Create(ctx context.Context, category *models.AssignmentCategory) error
	ListByClass(ctx context.Context, classID uint) ([]models.AssignmentCategory, error)
	// ListWithAssignments returns the class's categories with their assignments preloaded.
	ListWithAssignments(ctx context.Context, classID uint) ([]models.AssignmentCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository instantiates a GORM-backed repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Exists(ctx context.Context, classID uint, name string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.AssignmentCategory{}).
		Where("class_id = ? AND name = ?", classID, name))
}

func (r *categoryRepository) GetByName(ctx context.Context, classID uint, name string) (models.AssignmentCategory, error) {
	var category models.AssignmentCategory
	if err := r.db.WithContext(ctx).Where("class_id = ? AND name = ?", classID, name).First(&category).Error; err != nil {
		return models.AssignmentCategory{}, err
	}

	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.AssignmentCategory) error {
	return r.db.WithContext(ctx).Omit("Assignments").Create(category).Error
}

func (r *categoryRepository) ListByClass(ctx context.Context, classID uint) ([]models.AssignmentCategory, error) {
	var categories []models.AssignmentCategory
	if err := r.db.WithContext(ctx).Where("class_id = ?", classID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepository) ListWithAssignments(ctx context.Context, classID uint) ([]models.AssignmentCategory, error) {
	var categories []models.AssignmentCategory
	err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("class_id = ?", classID).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}
