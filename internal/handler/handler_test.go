package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/config"
	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/handler"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/router"
	"github.com/noah-isme/gema-lms-api/internal/service"
)

type envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    json.RawMessage      `json:"data"`
	Details handler.ErrorDetails `json:"details"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	logger := zerolog.Nop()
	store := repository.NewStore(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	trigger := service.NewRecomputeTrigger(store, nil, nil, 2, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "gema-lms-api", AppEnv: "test"}, router.Dependencies{
		CatalogHandler:    handler.NewCatalogHandler(service.NewCatalogService(store, validate, logger), logger),
		DirectoryHandler:  handler.NewDirectoryHandler(service.NewDirectoryService(store, validate, logger), logger),
		GradebookHandler:  handler.NewGradebookHandler(service.NewGradebookService(store, trigger, validate, logger), logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(service.NewEnrollmentService(store, nil, validate, logger), logger),
		WriteLimiter:      func(c *fiber.Ctx) error { return c.Next() },
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded envelope
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp, decoded
}

func mustStatus(t *testing.T, app *fiber.App, method, path string, payload interface{}, status int) envelope {
	t.Helper()
	resp, body := doJSON(t, app, method, path, payload)
	require.Equal(t, status, resp.StatusCode, body.Message)
	return body
}

const classPath = "/api/v1/classes/CS/5530/Fall/2026"

func seedCatalog(t *testing.T, app *fiber.App) {
	t.Helper()
	mustStatus(t, app, http.MethodPost, "/api/v1/departments", dto.CreateDepartmentRequest{Subject: "CS", Name: "Computer Science"}, fiber.StatusCreated)
	mustStatus(t, app, http.MethodPost, "/api/v1/professors", dto.CreateProfessorRequest{UID: "u0000100", FirstName: "Ada", LastName: "Lovelace", Department: "CS"}, fiber.StatusCreated)
	mustStatus(t, app, http.MethodPost, "/api/v1/courses", dto.CreateCourseRequest{Subject: "CS", Number: 5530, Name: "Databases"}, fiber.StatusCreated)
	mustStatus(t, app, http.MethodPost, "/api/v1/classes", dto.CreateClassRequest{
		Subject: "CS", Number: 5530, Season: "Fall", Year: 2026,
		Start: "09:00", End: "10:00", Location: "WEB L104", ProfessorID: "u0000100",
	}, fiber.StatusCreated)
}

func TestCatalogErrorsMapToStatusCodes(t *testing.T) {
	app := newTestApp(t)
	seedCatalog(t, app)

	body := mustStatus(t, app, http.MethodPost, "/api/v1/departments", dto.CreateDepartmentRequest{Subject: "CS", Name: "Computer Science"}, fiber.StatusConflict)
	require.False(t, body.Success)
	require.Equal(t, service.KindDuplicate, body.Details.Kind)

	body = mustStatus(t, app, http.MethodPost, "/api/v1/classes", dto.CreateClassRequest{
		Subject: "CS", Number: 5530, Season: "Fall", Year: 2026,
		Start: "09:30", End: "09:45", Location: "WEB L105", ProfessorID: "u0000100",
	}, fiber.StatusConflict)
	require.Equal(t, service.KindScheduleConflict, body.Details.Kind)
	require.Len(t, body.Details.Conflicts, 1)
	require.Equal(t, "WEB L104", body.Details.Conflicts[0].Location)

	body = mustStatus(t, app, http.MethodPost, "/api/v1/classes", dto.CreateClassRequest{
		Subject: "CS", Number: 5530, Season: "Fall", Year: 2026,
		Start: "11:00", End: "10:00", Location: "WEB L105", ProfessorID: "u0000100",
	}, fiber.StatusBadRequest)
	require.Equal(t, service.KindInvalidRange, body.Details.Kind)

	body = mustStatus(t, app, http.MethodPost, "/api/v1/courses", dto.CreateCourseRequest{Subject: "BIO", Number: 1010, Name: "Biology"}, fiber.StatusNotFound)
	require.Equal(t, service.KindNotFound, body.Details.Kind)
	require.Equal(t, "department not found", body.Message)

	body = mustStatus(t, app, http.MethodPost, "/api/v1/courses", map[string]interface{}{"subject": "CS"}, fiber.StatusBadRequest)
	require.Equal(t, "invalid payload", body.Message)
	require.Contains(t, body.Details.Fields, "Number")

	body = mustStatus(t, app, http.MethodGet, "/api/v1/courses/CS/5530/classes", nil, fiber.StatusOK)
	var offerings []dto.ClassOfferingResponse
	require.NoError(t, json.Unmarshal(body.Data, &offerings))
	require.Len(t, offerings, 1)
}

func TestGradingFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	seedCatalog(t, app)

	mustStatus(t, app, http.MethodPost, "/api/v1/students", dto.CreateStudentRequest{UID: "u0000001", FirstName: "Grace", LastName: "Hopper", Major: "CS"}, fiber.StatusCreated)
	mustStatus(t, app, http.MethodPost, classPath+"/enrollments", map[string]string{"uid": "u0000001"}, fiber.StatusCreated)
	mustStatus(t, app, http.MethodPost, classPath+"/enrollments", map[string]string{"uid": "u0000001"}, fiber.StatusConflict)
	mustStatus(t, app, http.MethodPost, classPath+"/categories", map[string]interface{}{"category": "Homework", "weight": 100}, fiber.StatusCreated)

	due := time.Now().Add(48 * time.Hour)
	for _, assignment := range []struct {
		name   string
		points uint
	}{{"HW1", 100}, {"HW2", 50}} {
		mustStatus(t, app, http.MethodPost, classPath+"/assignments", map[string]interface{}{
			"category": "Homework", "name": assignment.name, "points": assignment.points,
			"due": due, "instructions": "Solve the exercises.",
		}, fiber.StatusCreated)
	}

	hw := classPath + "/categories/Homework/assignments/"
	mustStatus(t, app, http.MethodPut, hw+"HW1/submissions/u0000001/score", map[string]uint{"score": 80}, fiber.StatusNotFound)

	for _, name := range []string{"HW1", "HW2"} {
		mustStatus(t, app, http.MethodPost, hw+name+"/submissions", map[string]string{"uid": "u0000001", "contents": "answers"}, fiber.StatusOK)
	}
	mustStatus(t, app, http.MethodPut, hw+"HW1/submissions/u0000001/score", map[string]uint{"score": 80}, fiber.StatusOK)
	mustStatus(t, app, http.MethodPut, hw+"HW2/submissions/u0000001/score", map[string]uint{"score": 51}, fiber.StatusBadRequest)
	body := mustStatus(t, app, http.MethodPut, hw+"HW2/submissions/u0000001/score", map[string]uint{"score": 50}, fiber.StatusOK)

	var graded dto.GradeSubmissionResponse
	require.NoError(t, json.Unmarshal(body.Data, &graded))
	require.Equal(t, "B", graded.Grade)
	require.Equal(t, service.TriggerSubmissionScored, graded.Recompute.Trigger)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/students/u0000001/gpa", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "false", resp.Header.Get("X-Cache-Hit"))
	var gpa dto.GPAResponse
	require.NoError(t, json.Unmarshal(body.Data, &gpa))
	require.InDelta(t, 3.0, gpa.GPA, 1e-9)

	body = mustStatus(t, app, http.MethodGet, classPath+"/students", nil, fiber.StatusOK)
	var roster []dto.RosterEntryResponse
	require.NoError(t, json.Unmarshal(body.Data, &roster))
	require.Len(t, roster, 1)
	require.Equal(t, "B", roster[0].Grade)

	body = mustStatus(t, app, http.MethodGet, "/api/v1/users/u0000001", nil, fiber.StatusOK)
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(body.Data, &user))
	require.Equal(t, dto.RoleStudent, user.Role)
}

func TestMalformedClassPathIsBadRequest(t *testing.T) {
	app := newTestApp(t)

	body := mustStatus(t, app, http.MethodGet, "/api/v1/classes/CS/abc/Fall/2026/categories", nil, fiber.StatusBadRequest)
	require.Equal(t, service.KindInvalidInput, body.Details.Kind)
}

type brokenCatalogService struct {
	service.CatalogService
}

func (brokenCatalogService) CreateDepartment(context.Context, dto.CreateDepartmentRequest) (dto.DepartmentResponse, error) {
	return dto.DepartmentResponse{}, errors.New("dial tcp: connection refused")
}

func TestStoreFailureHidesCause(t *testing.T) {
	app := fiber.New()
	handler.NewCatalogHandler(brokenCatalogService{}, zerolog.Nop()).Register(app.Group("/api/v1"))

	body := mustStatus(t, app, http.MethodPost, "/api/v1/departments", dto.CreateDepartmentRequest{Subject: "CS", Name: "Computer Science"}, fiber.StatusInternalServerError)
	require.Equal(t, "failed to create department", body.Message)
	require.Equal(t, service.KindStoreFailure, body.Details.Kind)
}

func TestHealthReportsApplication(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "gema-lms-api", resp.Header.Get("X-Application"))
	require.True(t, body.Success)
}

func TestHealthDegradesOnFailingDependency(t *testing.T) {
	app := fiber.New()
	router.Register(app, config.Config{AppName: "gema-lms-api"}, router.Dependencies{
		HealthChecks: map[string]handler.DependencyCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		},
	})

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(body.Data, &health))
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "ok", health.Dependencies["database"])
	require.Equal(t, "connection refused", health.Dependencies["redis"])
}

func TestStartQuerySelectsOffering(t *testing.T) {
	app := newTestApp(t)
	seedCatalog(t, app)
	mustStatus(t, app, http.MethodPost, "/api/v1/classes", dto.CreateClassRequest{
		Subject: "CS", Number: 5530, Season: "Fall", Year: 2026,
		Start: "13:00", End: "14:00", Location: "WEB L105", ProfessorID: "u0000100",
	}, fiber.StatusCreated)
	mustStatus(t, app, http.MethodPost, "/api/v1/students", dto.CreateStudentRequest{UID: "u0000003", FirstName: "Barbara", LastName: "Liskov", Major: "CS"}, fiber.StatusCreated)

	mustStatus(t, app, http.MethodPost, classPath+"/enrollments?start=13:00", map[string]string{"uid": "u0000003"}, fiber.StatusCreated)

	var roster []dto.RosterEntryResponse
	body := mustStatus(t, app, http.MethodGet, classPath+"/students?start=13:00", nil, fiber.StatusOK)
	require.NoError(t, json.Unmarshal(body.Data, &roster))
	require.Len(t, roster, 1)

	body = mustStatus(t, app, http.MethodGet, classPath+"/students", nil, fiber.StatusOK)
	require.NoError(t, json.Unmarshal(body.Data, &roster))
	require.Empty(t, roster)

	body = mustStatus(t, app, http.MethodGet, classPath+"/students?start=noon", nil, fiber.StatusBadRequest)
	require.Equal(t, service.KindInvalidInput, body.Details.Kind)
}
