package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// DepartmentRepository defines persistence operations for departments.
type DepartmentRepository interface {
	Exists(ctx context.Context, subject, name string) (bool, error)
	GetBySubject(ctx context.Context, subject string) (models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	List(ctx context.Context) ([]models.Department, error)
	ListWithCourses(ctx context.Context) ([]models.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository instantiates a GORM-backed repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Exists(ctx context.Context, subject, name string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Department{}).
		Where("subject = ? AND name = ?", subject, name))
}

func (r *departmentRepository) GetBySubject(ctx context.Context, subject string) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&department).Error; err != nil {
		return models.Department{}, err
	}

	return department, nil
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.WithContext(ctx).Order("subject ASC").Find(&departments).Error; err != nil {
		return nil, err
	}

	return departments, nil
}

func (r *departmentRepository) ListWithCourses(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	err := r.db.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Order("subject ASC").
		Find(&departments).Error
	if err != nil {
		return nil, err
	}

	return departments, nil
}

// CourseRepository defines persistence operations for catalog courses.
type CourseRepository interface {
	Exists(ctx context.Context, subject string, number int) (bool, error)
	GetByNumber(ctx context.Context, subject string, number int) (models.Course, error)
	// Lock takes a row lock on the course so offerings of it are created one at a time.
	Lock(ctx context.Context, id uint) error
	Create(ctx context.Context, course *models.Course) error
	ListByDepartment(ctx context.Context, subject string) ([]models.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Exists(ctx context.Context, subject string, number int) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Course{}).
		Where("department_subject = ? AND number = ?", subject, number))
}

func (r *courseRepository) GetByNumber(ctx context.Context, subject string, number int) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Where("department_subject = ? AND number = ?", subject, number).
		First(&course).Error
	if err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Lock(ctx context.Context, id uint) error {
	var course models.Course
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&course, id).Error
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) ListByDepartment(ctx context.Context, subject string) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("department_subject = ?", subject).Order("number ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}
