package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/grading"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

// EnrollmentService registers students in classes and reports their standing.
type EnrollmentService interface {
	Enroll(ctx context.Context, payload dto.EnrollRequest) (dto.EnrollmentResponse, error)
	GetGPA(ctx context.Context, studentID string) (dto.GPAResponse, error)
	ListStudentClasses(ctx context.Context, studentID string) ([]dto.StudentClassResponse, error)
	ListStudentAssignments(ctx context.Context, ref dto.ClassRef, studentID string) ([]dto.StudentAssignmentResponse, error)
}

type enrollmentService struct {
	store     repository.Store
	guard     UniquenessGuard
	cache     GPACache
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEnrollmentService constructs the enrollment service. cache may be nil.
func NewEnrollmentService(store repository.Store, cache GPACache, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		store:     store,
		cache:     cache,
		validator: validate,
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, payload dto.EnrollRequest) (resp dto.EnrollmentResponse, err error) {
	ctx, span := startSpan(ctx, "enrollment.enroll", attribute.String("enrollment.student_id", payload.StudentID))
	defer func() { endSpan(span, err) }()

	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	var enrollment models.Enrollment
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		class, err := findClass(ctx, repos, payload.ClassRef)
		if err != nil {
			return translateStoreError("class", err)
		}
		if _, err := repos.People.GetStudent(ctx, payload.StudentID); err != nil {
			return translateStoreError("student", err)
		}
		if err := s.guard.Enrollment(ctx, repos, payload.StudentID, class.ID); err != nil {
			return err
		}

		enrollment = models.Enrollment{StudentID: payload.StudentID, ClassID: class.ID, Grade: string(grading.Ungraded)}
		return repos.Enrollments.Create(ctx, &enrollment)
	})
	if err != nil {
		return dto.EnrollmentResponse{}, translateStoreError("enrollment", err)
	}

	s.logger.Info().Str("student_id", enrollment.StudentID).Uint("class_id", enrollment.ClassID).Msg("student enrolled")
	return dto.EnrollmentResponse{StudentID: enrollment.StudentID, ClassID: enrollment.ClassID, Grade: enrollment.Grade}, nil
}

// GetGPA answers from the cache when possible. Cache errors are logged and bypassed.
func (s *enrollmentService) GetGPA(ctx context.Context, studentID string) (resp dto.GPAResponse, err error) {
	ctx, span := startSpan(ctx, "enrollment.gpa", attribute.String("gpa.student_id", studentID))
	defer func() { endSpan(span, err) }()

	// The generation is read before the grades so that a recompute committing
	// in between makes the later Set a no-op.
	var lookup GPALookup
	cacheUsable := false
	if s.cache != nil {
		var err error
		lookup, err = s.cache.Get(ctx, studentID)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("student_id", studentID).Msg("failed to read gpa cache")
		case lookup.Hit:
			span.SetAttributes(attribute.Bool("gpa.cached", true))
			return dto.GPAResponse{StudentID: studentID, GPA: lookup.GPA, Cached: true}, nil
		default:
			cacheUsable = true
		}
	}

	var grades []string
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		var err error
		grades, err = repos.Enrollments.ListGradesByStudent(ctx, studentID)
		return err
	})
	if err != nil {
		return dto.GPAResponse{}, translateStoreError("enrollment", err)
	}

	gpa := grading.GPA(grades)
	if cacheUsable {
		stored, err := s.cache.Set(ctx, studentID, gpa, lookup.Generation)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("student_id", studentID).Msg("failed to store gpa cache")
		case !stored:
			s.logger.Debug().Str("student_id", studentID).Msg("grades changed during gpa read, cache not updated")
		}
	}

	return dto.GPAResponse{StudentID: studentID, GPA: gpa}, nil
}

func (s *enrollmentService) ListStudentClasses(ctx context.Context, studentID string) ([]dto.StudentClassResponse, error) {
	rows, err := s.store.Repositories().Enrollments.ListClassesForStudent(ctx, studentID)
	if err != nil {
		return nil, translateStoreError("enrollment", err)
	}

	responses := make([]dto.StudentClassResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.StudentClassResponse{
			Subject: row.Subject,
			Number:  row.Number,
			Name:    row.CourseName,
			Season:  row.Season,
			Year:    row.Year,
			Grade:   row.Grade,
		})
	}
	return responses, nil
}

func (s *enrollmentService) ListStudentAssignments(ctx context.Context, ref dto.ClassRef, studentID string) ([]dto.StudentAssignmentResponse, error) {
	repos := s.store.Repositories()
	class, err := findClass(ctx, repos, ref)
	if err != nil {
		return nil, translateStoreError("class", err)
	}

	rows, err := repos.Submissions.ListForStudentInClass(ctx, studentID, class.ID)
	if err != nil {
		return nil, translateStoreError("submission", err)
	}

	responses := make([]dto.StudentAssignmentResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.StudentAssignmentResponse{
			Name:     row.Name,
			Category: row.CategoryName,
			Due:      row.Due,
			Score:    row.Score,
		})
	}
	return responses, nil
}
