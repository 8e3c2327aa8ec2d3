package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// GradeChangeRepository persists the audit trail of recomputed grades.
type GradeChangeRepository interface {
	Create(ctx context.Context, change *models.GradeChange) error
	ListByEnrollment(ctx context.Context, studentID string, classID uint) ([]models.GradeChange, error)
}

type gradeChangeRepository struct {
	db *gorm.DB
}

// NewGradeChangeRepository instantiates the repository.
func NewGradeChangeRepository(db *gorm.DB) GradeChangeRepository {
	return &gradeChangeRepository{db: db}
}

func (r *gradeChangeRepository) Create(ctx context.Context, change *models.GradeChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *gradeChangeRepository) ListByEnrollment(ctx context.Context, studentID string, classID uint) ([]models.GradeChange, error) {
	var changes []models.GradeChange
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Order("id ASC").
		Find(&changes).Error
	if err != nil {
		return nil, err
	}

	return changes, nil
}
