package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// AssignmentRow summarizes an assignment in class listings.
type AssignmentRow struct {
	AssignmentID uint
	Name         string
	CategoryName string
	Due          time.Time
	Points       uint
	Submissions  int64
}

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	Exists(ctx context.Context, categoryID uint, name string) (bool, error)
	GetByName(ctx context.Context, categoryID uint, name string) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	// ListByClass lists assignments of the class, limited to one category when category is non-empty.
	ListByClass(ctx context.Context, classID uint, category string) ([]AssignmentRow, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Exists(ctx context.Context, categoryID uint, name string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("category_id = ? AND name = ?", categoryID, name))
}

func (r *assignmentRepository) GetByName(ctx context.Context, categoryID uint, name string) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Where("category_id = ? AND name = ?", categoryID, name).First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) ListByClass(ctx context.Context, classID uint, category string) ([]AssignmentRow, error) {
	query := r.db.WithContext(ctx).
		Table("assignments").
		Select("assignments.id AS assignment_id, assignments.name, assignment_categories.name AS category_name, assignments.due, assignments.points, COUNT(submissions.assignment_id) AS submissions").
		Joins("JOIN assignment_categories ON assignment_categories.id = assignments.category_id").
		Joins("LEFT JOIN submissions ON submissions.assignment_id = assignments.id").
		Where("assignment_categories.class_id = ?", classID)

	if category != "" {
		query = query.Where("assignment_categories.name = ?", category)
	}

	var rows []AssignmentRow
	err := query.
		Group("assignments.id, assignments.name, assignment_categories.name, assignments.due, assignments.points").
		Order("assignments.due ASC, assignments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
