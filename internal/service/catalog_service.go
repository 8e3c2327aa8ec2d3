package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

// CatalogService manages departments, courses and scheduled class offerings.
type CatalogService interface {
	CreateDepartment(ctx context.Context, payload dto.CreateDepartmentRequest) (dto.DepartmentResponse, error)
	CreateCourse(ctx context.Context, payload dto.CreateCourseRequest) (dto.CourseResponse, error)
	CreateClass(ctx context.Context, payload dto.CreateClassRequest) (dto.ClassResponse, error)
	ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error)
	GetCatalog(ctx context.Context) ([]dto.CatalogDepartment, error)
	ListCourses(ctx context.Context, subject string) ([]dto.CourseResponse, error)
	ListProfessors(ctx context.Context, subject string) ([]dto.ProfessorResponse, error)
	ListClassOfferings(ctx context.Context, subject string, number int) ([]dto.ClassOfferingResponse, error)
	ListProfessorClasses(ctx context.Context, professorID string) ([]dto.ProfessorClassResponse, error)
}

type catalogService struct {
	store     repository.Store
	guard     UniquenessGuard
	detector  ScheduleConflictDetector
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(store repository.Store, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		store:     store,
		validator: validate,
		logger:    logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentRequest) (resp dto.DepartmentResponse, err error) {
	ctx, span := startSpan(ctx, "catalog.create_department", attribute.String("department.subject", payload.Subject))
	defer func() { endSpan(span, err) }()

	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{Subject: payload.Subject, Name: payload.Name}
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		if err := s.guard.Department(ctx, repos, department.Subject, department.Name); err != nil {
			return err
		}
		return repos.Departments.Create(ctx, &department)
	})
	if err != nil {
		return dto.DepartmentResponse{}, translateStoreError("department", err)
	}

	s.logger.Info().Str("subject", department.Subject).Msg("department created")
	return dto.NewDepartmentResponse(department), nil
}

func (s *catalogService) CreateCourse(ctx context.Context, payload dto.CreateCourseRequest) (resp dto.CourseResponse, err error) {
	ctx, span := startSpan(ctx, "catalog.create_course",
		attribute.String("course.subject", payload.Subject),
		attribute.Int("course.number", payload.Number),
	)
	defer func() { endSpan(span, err) }()

	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{DepartmentSubject: payload.Subject, Number: payload.Number, Name: payload.Name}
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Departments.GetBySubject(ctx, course.DepartmentSubject); err != nil {
			return translateStoreError("department", err)
		}
		if err := s.guard.Course(ctx, repos, course.DepartmentSubject, course.Number); err != nil {
			return err
		}
		return repos.Courses.Create(ctx, &course)
	})
	if err != nil {
		return dto.CourseResponse{}, translateStoreError("course", err)
	}

	s.logger.Info().Str("subject", course.DepartmentSubject).Int("number", course.Number).Msg("course created")
	return dto.NewCourseResponse(course), nil
}

// CreateClass locks the course row so that concurrent offerings of the same
// course are checked for overlap one at a time.
func (s *catalogService) CreateClass(ctx context.Context, payload dto.CreateClassRequest) (resp dto.ClassResponse, err error) {
	ctx, span := startSpan(ctx, "catalog.create_class",
		attribute.String("course.subject", payload.Subject),
		attribute.Int("course.number", payload.Number),
		attribute.String("class.season", payload.Season),
		attribute.Int("class.year", payload.Year),
	)
	defer func() { endSpan(span, err) }()

	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	start, err := models.ParseTimeOfDay(payload.Start)
	if err != nil {
		return dto.ClassResponse{}, invalidInput("start: %v", err)
	}
	end, err := models.ParseTimeOfDay(payload.End)
	if err != nil {
		return dto.ClassResponse{}, invalidInput("end: %v", err)
	}
	slot := TimeRange{Start: start, End: end}
	if !slot.Valid() {
		return dto.ClassResponse{}, ErrInvalidRange
	}

	var (
		class  models.Class
		course models.Course
	)
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		var err error
		course, err = repos.Courses.GetByNumber(ctx, payload.Subject, payload.Number)
		if err != nil {
			return translateStoreError("course", err)
		}
		if err := repos.Courses.Lock(ctx, course.ID); err != nil {
			return translateStoreError("course", err)
		}
		if _, err := repos.People.GetProfessor(ctx, payload.ProfessorID); err != nil {
			return translateStoreError("professor", err)
		}

		class = models.Class{
			CourseID:    course.ID,
			Year:        payload.Year,
			Season:      payload.Season,
			StartTime:   start,
			EndTime:     end,
			Location:    payload.Location,
			ProfessorID: payload.ProfessorID,
		}
		if err := s.guard.ClassOffering(ctx, repos, class); err != nil {
			return err
		}

		offerings, err := repos.Classes.ListOfferings(ctx, course.ID, class.Year, class.Season)
		if err != nil {
			return translateStoreError("class", err)
		}
		if err := s.detector.Check(slot, offerings); err != nil {
			return err
		}

		return repos.Classes.Create(ctx, &class)
	})
	if err != nil {
		return dto.ClassResponse{}, translateStoreError("class", err)
	}

	s.logger.Info().
		Uint("class_id", class.ID).
		Str("subject", course.DepartmentSubject).
		Int("number", course.Number).
		Str("season", class.Season).
		Int("year", class.Year).
		Msg("class created")
	return dto.NewClassResponse(class, course), nil
}

func (s *catalogService) ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := s.store.Repositories().Departments.List(ctx)
	if err != nil {
		return nil, translateStoreError("department", err)
	}

	responses := make([]dto.DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		responses = append(responses, dto.NewDepartmentResponse(department))
	}
	return responses, nil
}

func (s *catalogService) GetCatalog(ctx context.Context) ([]dto.CatalogDepartment, error) {
	departments, err := s.store.Repositories().Departments.ListWithCourses(ctx)
	if err != nil {
		return nil, translateStoreError("department", err)
	}

	catalog := make([]dto.CatalogDepartment, 0, len(departments))
	for _, department := range departments {
		entry := dto.CatalogDepartment{
			Subject: department.Subject,
			Name:    department.Name,
			Courses: make([]dto.CourseResponse, 0, len(department.Courses)),
		}
		for _, course := range department.Courses {
			entry.Courses = append(entry.Courses, dto.NewCourseResponse(course))
		}
		catalog = append(catalog, entry)
	}
	return catalog, nil
}

func (s *catalogService) ListCourses(ctx context.Context, subject string) ([]dto.CourseResponse, error) {
	courses, err := s.store.Repositories().Courses.ListByDepartment(ctx, subject)
	if err != nil {
		return nil, translateStoreError("course", err)
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, dto.NewCourseResponse(course))
	}
	return responses, nil
}

func (s *catalogService) ListProfessors(ctx context.Context, subject string) ([]dto.ProfessorResponse, error) {
	professors, err := s.store.Repositories().People.ListProfessorsByDepartment(ctx, subject)
	if err != nil {
		return nil, translateStoreError("professor", err)
	}

	responses := make([]dto.ProfessorResponse, 0, len(professors))
	for _, professor := range professors {
		responses = append(responses, dto.ProfessorResponse{
			UID:       professor.ID,
			FirstName: professor.FirstName,
			LastName:  professor.LastName,
		})
	}
	return responses, nil
}

func (s *catalogService) ListClassOfferings(ctx context.Context, subject string, number int) ([]dto.ClassOfferingResponse, error) {
	classes, err := s.store.Repositories().Classes.ListByCourse(ctx, subject, number)
	if err != nil {
		return nil, translateStoreError("class", err)
	}

	responses := make([]dto.ClassOfferingResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, dto.ClassOfferingResponse{
			Season:             class.Season,
			Year:               class.Year,
			Location:           class.Location,
			Start:              class.StartTime.String(),
			End:                class.EndTime.String(),
			ProfessorFirstName: class.Professor.FirstName,
			ProfessorLastName:  class.Professor.LastName,
		})
	}
	return responses, nil
}

func (s *catalogService) ListProfessorClasses(ctx context.Context, professorID string) ([]dto.ProfessorClassResponse, error) {
	classes, err := s.store.Repositories().Classes.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, translateStoreError("class", err)
	}

	responses := make([]dto.ProfessorClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, dto.ProfessorClassResponse{
			Subject: class.Course.DepartmentSubject,
			Number:  class.Course.Number,
			Name:    class.Course.Name,
			Season:  class.Season,
			Year:    class.Year,
		})
	}
	return responses, nil
}
