package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// ClassRef identifies a class offering the way callers name it: course subject
// and number plus the season and year it runs in. Start picks one offering
// when a semester has several; without it the earliest offering is used.
type ClassRef struct {
	Subject string
	Number  int
	Season  string
	Year    int
	Start   *models.TimeOfDay
}

// Repositories bundles the queries available to one unit of work.
type Repositories struct {
	Departments  DepartmentRepository
	Courses      CourseRepository
	Classes      ClassRepository
	People       PersonRepository
	Enrollments  EnrollmentRepository
	Categories   CategoryRepository
	Assignments  AssignmentRepository
	Submissions  SubmissionRepository
	GradeChanges GradeChangeRepository
}

// NewRepositories binds every repository to the same connection or transaction.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Departments:  NewDepartmentRepository(db),
		Courses:      NewCourseRepository(db),
		Classes:      NewClassRepository(db),
		People:       NewPersonRepository(db),
		Enrollments:  NewEnrollmentRepository(db),
		Categories:   NewCategoryRepository(db),
		Assignments:  NewAssignmentRepository(db),
		Submissions:  NewSubmissionRepository(db),
		GradeChanges: NewGradeChangeRepository(db),
	}
}

// Store is the transactional entity store the services run against.
type Store interface {
	// Repositories returns repositories outside of any transaction.
	Repositories() Repositories
	// WithinTransaction runs fn atomically; a returned error rolls back every write.
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

type gormStore struct {
	db    *gorm.DB
	repos Repositories
}

// NewStore instantiates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db, repos: NewRepositories(db)}
}

func (s *gormStore) Repositories() Repositories {
	return s.repos
}

func (s *gormStore) WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
