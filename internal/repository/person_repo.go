package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// PersonRepository defines persistence operations for students, professors and administrators.
type PersonRepository interface {
	GetStudent(ctx context.Context, id string) (models.Student, error)
	GetProfessor(ctx context.Context, id string) (models.Professor, error)
	GetAdministrator(ctx context.Context, id string) (models.Administrator, error)
	UIDTaken(ctx context.Context, id string) (bool, error)
	CreateStudent(ctx context.Context, student *models.Student) error
	CreateProfessor(ctx context.Context, professor *models.Professor) error
	CreateAdministrator(ctx context.Context, administrator *models.Administrator) error
	ListProfessorsByDepartment(ctx context.Context, subject string) ([]models.Professor, error)
}

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository instantiates a GORM-backed repository.
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) GetStudent(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *personRepository) GetProfessor(ctx context.Context, id string) (models.Professor, error) {
	var professor models.Professor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&professor).Error; err != nil {
		return models.Professor{}, err
	}

	return professor, nil
}

func (r *personRepository) GetAdministrator(ctx context.Context, id string) (models.Administrator, error) {
	var administrator models.Administrator
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&administrator).Error; err != nil {
		return models.Administrator{}, err
	}

	return administrator, nil
}

// UIDTaken reports whether any kind of user already holds the uid.
func (r *personRepository) UIDTaken(ctx context.Context, id string) (bool, error) {
	for _, model := range []interface{}{&models.Student{}, &models.Professor{}, &models.Administrator{}} {
		found, err := exists(r.db.WithContext(ctx).Model(model).Where("id = ?", id))
		if err != nil || found {
			return found, err
		}
	}

	return false, nil
}

func (r *personRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *personRepository) CreateProfessor(ctx context.Context, professor *models.Professor) error {
	return r.db.WithContext(ctx).Create(professor).Error
}

func (r *personRepository) CreateAdministrator(ctx context.Context, administrator *models.Administrator) error {
	return r.db.WithContext(ctx).Create(administrator).Error
}

func (r *personRepository) ListProfessorsByDepartment(ctx context.Context, subject string) ([]models.Professor, error) {
	var professors []models.Professor
	err := r.db.WithContext(ctx).
		Where("department_subject = ?", subject).
		Order("last_name ASC, first_name ASC").
		Find(&professors).Error
	if err != nil {
		return nil, err
	}

	return professors, nil
}
