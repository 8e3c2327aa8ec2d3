package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// StudentGradeRow is one student in a class roster.
type StudentGradeRow struct {
	StudentID   string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Grade       string
}

// StudentClassRow is one class on a student's schedule.
type StudentClassRow struct {
	ClassID    uint
	Subject    string
	Number     int
	CourseName string
	Season     string
	Year       int
	Grade      string
}

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	Exists(ctx context.Context, studentID string, classID uint) (bool, error)
	Get(ctx context.Context, studentID string, classID uint) (models.Enrollment, error)
	// GetForUpdate loads the enrollment holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, studentID string, classID uint) (models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateGrade(ctx context.Context, studentID string, classID uint, grade string) error
	ListGradedByClass(ctx context.Context, classID uint, ungraded string) ([]models.Enrollment, error)
	ListGradesByStudent(ctx context.Context, studentID string) ([]string, error)
	ListRoster(ctx context.Context, classID uint) ([]StudentGradeRow, error)
	ListClassesForStudent(ctx context.Context, studentID string) ([]StudentClassRow, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Exists(ctx context.Context, studentID string, classID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND class_id = ?", studentID, classID))
}

func (r *enrollmentRepository) Get(ctx context.Context, studentID string, classID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		First(&enrollment).Error
	if err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) GetForUpdate(ctx context.Context, studentID string, classID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		First(&enrollment).Error
	if err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) UpdateGrade(ctx context.Context, studentID string, classID uint, grade string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Update("grade", grade)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepository) ListGradedByClass(ctx context.Context, classID uint, ungraded string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND grade <> ?", classID, ungraded).
		Order("student_id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) ListGradesByStudent(ctx context.Context, studentID string) ([]string, error) {
	var grades []string
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Pluck("grade", &grades).Error
	if err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *enrollmentRepository) ListRoster(ctx context.Context, classID uint) ([]StudentGradeRow, error) {
	var rows []StudentGradeRow
	err := r.db.WithContext(ctx).
		Table("enrollments").
		Select("students.id AS student_id, students.first_name, students.last_name, students.date_of_birth, enrollments.grade").
		Joins("JOIN students ON students.id = enrollments.student_id").
		Where("enrollments.class_id = ?", classID).
		Order("students.last_name ASC, students.first_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *enrollmentRepository) ListClassesForStudent(ctx context.Context, studentID string) ([]StudentClassRow, error) {
	var rows []StudentClassRow
	err := r.db.WithContext(ctx).
		Table("enrollments").
		Select("classes.id AS class_id, courses.department_subject AS subject, courses.number, courses.name AS course_name, classes.season, classes.year, enrollments.grade").
		Joins("JOIN classes ON classes.id = enrollments.class_id").
		Joins("JOIN courses ON courses.id = classes.course_id").
		Where("enrollments.student_id = ?", studentID).
		Order("classes.year DESC, courses.department_subject ASC, courses.number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
