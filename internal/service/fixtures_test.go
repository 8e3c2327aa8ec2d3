package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type testEnv struct {
	db         *gorm.DB
	store      repository.Store
	trigger    RecomputeTrigger
	catalog    CatalogService
	directory  DirectoryService
	gradebook  GradebookService
	enrollment EnrollmentService
}

type envConfig struct {
	cache     GPACache
	publisher GradePublisher
}

func newTestEnv(t *testing.T, cfg envConfig) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	store := repository.NewStore(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	trigger := NewRecomputeTrigger(store, cfg.cache, cfg.publisher, 4, testLogger())

	return &testEnv{
		db:         db,
		store:      store,
		trigger:    trigger,
		catalog:    NewCatalogService(store, validate, testLogger()),
		directory:  NewDirectoryService(store, validate, testLogger()),
		gradebook:  NewGradebookService(store, trigger, validate, testLogger()),
		enrollment: NewEnrollmentService(store, cfg.cache, validate, testLogger()),
	}
}

var fallClass = dto.ClassRef{Subject: "CS", Number: 5530, Season: "Fall", Year: 2026}

// seedClass creates the CS department, one professor, CS 5530 and its Fall 2026 offering at 09:00-10:00.
func (e *testEnv) seedClass(t *testing.T) dto.ClassRef {
	t.Helper()
	ctx := context.Background()

	_, err := e.catalog.CreateDepartment(ctx, dto.CreateDepartmentRequest{Subject: "CS", Name: "Computer Science"})
	require.NoError(t, err)
	_, err = e.directory.CreateProfessor(ctx, dto.CreateProfessorRequest{
		UID: "u0000100", FirstName: "Ada", LastName: "Lovelace", Department: "CS",
	})
	require.NoError(t, err)
	_, err = e.catalog.CreateCourse(ctx, dto.CreateCourseRequest{Subject: "CS", Number: 5530, Name: "Databases"})
	require.NoError(t, err)
	_, err = e.catalog.CreateClass(ctx, dto.CreateClassRequest{
		Subject: "CS", Number: 5530, Season: "Fall", Year: 2026,
		Start: "09:00", End: "10:00", Location: "WEB L104", ProfessorID: "u0000100",
	})
	require.NoError(t, err)

	return fallClass
}

func (e *testEnv) enrollStudent(t *testing.T, ref dto.ClassRef, uid string) {
	t.Helper()
	ctx := context.Background()

	_, err := e.directory.CreateStudent(ctx, dto.CreateStudentRequest{
		UID: uid, FirstName: "Student", LastName: uid, Major: "CS",
	})
	require.NoError(t, err)
	_, err = e.enrollment.Enroll(ctx, dto.EnrollRequest{ClassRef: ref, StudentID: uid})
	require.NoError(t, err)
}

func (e *testEnv) addCategory(t *testing.T, ref dto.ClassRef, name string, weight uint) {
	t.Helper()
	_, err := e.gradebook.CreateAssignmentCategory(context.Background(), dto.CreateCategoryRequest{
		ClassRef: ref, Name: name, Weight: weight,
	})
	require.NoError(t, err)
}

func (e *testEnv) addAssignment(t *testing.T, ref dto.ClassRef, category, name string, points uint) dto.AssignmentCreatedResponse {
	t.Helper()
	resp, err := e.gradebook.CreateAssignment(context.Background(), dto.CreateAssignmentRequest{
		ClassRef:     ref,
		Category:     category,
		Name:         name,
		Points:       points,
		Due:          time.Now().Add(72 * time.Hour),
		Instructions: "Answer every question.",
	})
	require.NoError(t, err)
	return resp
}

// score submits on behalf of the student and grades the submission.
func (e *testEnv) score(t *testing.T, ref dto.ClassRef, category, assignment, uid string, points uint) dto.GradeSubmissionResponse {
	t.Helper()
	ctx := context.Background()

	_, err := e.gradebook.SubmitAssignment(ctx, dto.SubmitAssignmentRequest{
		ClassRef: ref, Category: category, Assignment: assignment, StudentID: uid, Contents: "my answer",
	})
	require.NoError(t, err)

	resp, err := e.gradebook.GradeSubmission(ctx, dto.GradeSubmissionRequest{
		ClassRef: ref, Category: category, Assignment: assignment, StudentID: uid, Score: points,
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) grade(t *testing.T, uid string) string {
	t.Helper()
	var enrollment models.Enrollment
	require.NoError(t, e.db.Where("student_id = ?", uid).First(&enrollment).Error)
	return enrollment.Grade
}
