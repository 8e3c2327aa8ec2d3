package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// ClassRepository defines persistence operations for class offerings.
type ClassRepository interface {
	// GetByRef resolves a class reference; when a course runs several offerings
	// in the same season the earliest-starting one is returned.
	GetByRef(ctx context.Context, ref ClassRef) (models.Class, error)
	ExistsSlot(ctx context.Context, candidate models.Class) (bool, error)
	ListOfferings(ctx context.Context, courseID uint, year int, season string) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	ListByCourse(ctx context.Context, subject string, number int) ([]models.Class, error)
	ListByProfessor(ctx context.Context, professorID string) ([]models.Class, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) GetByRef(ctx context.Context, ref ClassRef) (models.Class, error) {
	var class models.Class
	query := r.db.WithContext(ctx).
		Joins("Course").
		Where("\"Course\".department_subject = ? AND \"Course\".number = ?", ref.Subject, ref.Number).
		Where("classes.season = ? AND classes.year = ?", ref.Season, ref.Year)
	if ref.Start != nil {
		query = query.Where("classes.start_time = ?", *ref.Start)
	}
	err := query.Order("classes.start_time ASC, classes.id ASC").First(&class).Error
	if err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) ExistsSlot(ctx context.Context, candidate models.Class) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Class{}).
		Where("course_id = ? AND year = ? AND season = ?", candidate.CourseID, candidate.Year, candidate.Season).
		Where("start_time = ? AND end_time = ?", candidate.StartTime, candidate.EndTime))
}

func (r *classRepository) ListOfferings(ctx context.Context, courseID uint, year int, season string) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND year = ? AND season = ?", courseID, year, season).
		Order("start_time ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Omit("Course", "Professor").Create(class).Error
}

func (r *classRepository) ListByCourse(ctx context.Context, subject string, number int) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Joins("Course").
		Joins("Professor").
		Where("\"Course\".department_subject = ? AND \"Course\".number = ?", subject, number).
		Order("classes.year DESC, classes.season ASC, classes.start_time ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) ListByProfessor(ctx context.Context, professorID string) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Joins("Course").
		Where("classes.professor_id = ?", professorID).
		Order("classes.year DESC, classes.season ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}

	return classes, nil
}
