package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

// GradebookService manages assignment categories, assignments and submissions of a class.
type GradebookService interface {
	CreateAssignmentCategory(ctx context.Context, payload dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	CreateAssignment(ctx context.Context, payload dto.CreateAssignmentRequest) (dto.AssignmentCreatedResponse, error)
	GradeSubmission(ctx context.Context, payload dto.GradeSubmissionRequest) (dto.GradeSubmissionResponse, error)
	SubmitAssignment(ctx context.Context, payload dto.SubmitAssignmentRequest) (dto.SubmissionResponse, error)
	ListCategories(ctx context.Context, ref dto.ClassRef) ([]dto.CategoryResponse, error)
	ListAssignments(ctx context.Context, ref dto.ClassRef, category string) ([]dto.AssignmentSummaryResponse, error)
	GetAssignmentContents(ctx context.Context, ref dto.ClassRef, category, assignment string) (string, error)
	ListSubmissions(ctx context.Context, ref dto.ClassRef, category, assignment string) ([]dto.SubmissionSummaryResponse, error)
	GetSubmissionText(ctx context.Context, ref dto.ClassRef, category, assignment, studentID string) (string, error)
	ListStudentsInClass(ctx context.Context, ref dto.ClassRef) ([]dto.RosterEntryResponse, error)
}

type gradebookService struct {
	store     repository.Store
	guard     UniquenessGuard
	trigger   RecomputeTrigger
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradebookService constructs the gradebook service.
func NewGradebookService(store repository.Store, trigger RecomputeTrigger, validate *validator.Validate, logger zerolog.Logger) GradebookService {
	return &gradebookService{
		store:     store,
		trigger:   trigger,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "gradebook_service").Logger(),
		now:       time.Now,
	}
}

type assignmentPath struct {
	class      models.Class
	category   models.AssignmentCategory
	assignment models.Assignment
}

// findClass resolves a class reference inside the caller's transaction. A ref
// without a start time names the earliest offering of its semester.
func findClass(ctx context.Context, repos repository.Repositories, ref dto.ClassRef) (models.Class, error) {
	key := repository.ClassRef{Subject: ref.Subject, Number: ref.Number, Season: ref.Season, Year: ref.Year}
	if ref.Start != "" {
		start, err := models.ParseTimeOfDay(ref.Start)
		if err != nil {
			return models.Class{}, invalidInput("class start: %v", err)
		}
		key.Start = &start
	}

	class, err := repos.Classes.GetByRef(ctx, key)
	if err != nil {
		return models.Class{}, translateStoreError("class", err)
	}
	return class, nil
}

// resolveAssignment walks class, category and assignment, reporting the first missing one.
func resolveAssignment(ctx context.Context, repos repository.Repositories, ref dto.ClassRef, category, assignment string) (assignmentPath, error) {
	var path assignmentPath
	var err error

	path.class, err = findClass(ctx, repos, ref)
	if err != nil {
		return path, translateStoreError("class", err)
	}
	path.category, err = repos.Categories.GetByName(ctx, path.class.ID, category)
	if err != nil {
		return path, translateStoreError("assignment category", err)
	}
	path.assignment, err = repos.Assignments.GetByName(ctx, path.category.ID, assignment)
	if err != nil {
		return path, translateStoreError("assignment", err)
	}
	return path, nil
}

func (s *gradebookService) CreateAssignmentCategory(ctx context.Context, payload dto.CreateCategoryRequest) (resp dto.CategoryResponse, err error) {
	ctx, span := startSpan(ctx, "gradebook.create_category", attribute.String("category.name", payload.Name))
	defer func() { endSpan(span, err) }()

	if err := s.validator.Struct(payload); err != nil {
		return dto.CategoryResponse{}, err
	}

	var category models.AssignmentCategory
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		class, err := findClass(ctx, repos, payload.ClassRef)
		if err != nil {
			return translateStoreError("class", err)
		}
		if err := s.guard.Category(ctx, repos, class.ID, payload.Name); err != nil {
			return err
		}

		category = models.AssignmentCategory{ClassID: class.ID, Name: payload.Name, Weight: payload.Weight}
		return repos.Categories.Create(ctx, &category)
	})
	if err != nil {
		return dto.CategoryResponse{}, translateStoreError("assignment category", err)
	}

	s.logger.Info().Uint("class_id", category.ClassID).Str("category", category.Name).Msg("assignment category created")
	return dto.CategoryResponse{Name: category.Name, Weight: category.Weight}, nil
}

// CreateAssignment commits the assignment first and then dispatches the recompute.
// A recompute that cannot start is reported as a batch failure with no uid;
// the assignment itself stays created.
func (s *gradebookService) CreateAssignment(ctx context.Context, payload dto.CreateAssignmentRequest) (resp dto.AssignmentCreatedResponse, err error) {
	ctx, span := startSpan(ctx, "gradebook.create_assignment",
		attribute.String("assignment.category", payload.Category),
		attribute.String("assignment.name", payload.Name),
	)
	defer func() { endSpan(span, err) }()

	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentCreatedResponse{}, err
	}
	if payload.Due.Before(s.now()) {
		return dto.AssignmentCreatedResponse{}, invalidInput("due date %s is in the past", payload.Due.Format(time.RFC3339))
	}
	instructions := strings.TrimSpace(s.sanitizer.Sanitize(payload.Instructions))
	if instructions == "" {
		return dto.AssignmentCreatedResponse{}, invalidInput("instructions are empty after sanitizing")
	}

	var assignment models.Assignment
	var category models.AssignmentCategory
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		class, err := findClass(ctx, repos, payload.ClassRef)
		if err != nil {
			return translateStoreError("class", err)
		}
		category, err = repos.Categories.GetByName(ctx, class.ID, payload.Category)
		if err != nil {
			return translateStoreError("assignment category", err)
		}
		if err := s.guard.Assignment(ctx, repos, category.ID, payload.Name); err != nil {
			return err
		}

		assignment = models.Assignment{
			CategoryID:   category.ID,
			Name:         payload.Name,
			Due:          payload.Due,
			Points:       payload.Points,
			Instructions: instructions,
		}
		return repos.Assignments.Create(ctx, &assignment)
	})
	if err != nil {
		return dto.AssignmentCreatedResponse{}, translateStoreError("assignment", err)
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("class_id", category.ClassID).Msg("assignment created")

	report, dispatchErr := s.trigger.Dispatch(ctx, AssignmentCreated{
		ClassID:      category.ClassID,
		CategoryID:   category.ID,
		AssignmentID: assignment.ID,
	})
	if dispatchErr != nil {
		s.logger.Error().Err(dispatchErr).Uint("class_id", category.ClassID).Msg("grade recompute could not start")
		report.Failures = append(report.Failures, dto.RecomputeFailure{Error: dispatchErr.Error()})
	}

	return dto.AssignmentCreatedResponse{
		Assignment: dto.AssignmentResponse{
			ID:           assignment.ID,
			Category:     category.Name,
			Name:         assignment.Name,
			Points:       assignment.Points,
			Due:          assignment.Due,
			Instructions: assignment.Instructions,
		},
		Recompute: report,
	}, nil
}

// GradeSubmission stores the score and then recomputes that student's class grade.
func (s *gradebookService) GradeSubmission(ctx context.Context, payload dto.GradeSubmissionRequest) (resp dto.GradeSubmissionResponse, err error) {
	ctx, span := startSpan(ctx, "gradebook.grade_submission",
		attribute.String("submission.student_id", payload.StudentID),
		attribute.String("submission.assignment", payload.Assignment),
	)
	defer func() { endSpan(span, err) }()

	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeSubmissionResponse{}, err
	}

	var path assignmentPath
	err = s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		var err error
		path, err = resolveAssignment(ctx, repos, payload.ClassRef, payload.Category, payload.Assignment)
		if err != nil {
			return err
		}
		if payload.Score > path.assignment.Points {
			return invalidInput("score %d exceeds %d points", payload.Score, path.assignment.Points)
		}
		if _, err := repos.Submissions.Get(ctx, payload.StudentID, path.assignment.ID); err != nil {
			return translateStoreError("submission", err)
		}
		return repos.Submissions.UpdateScore(ctx, payload.StudentID, path.assignment.ID, payload.Score)
	})
	if err != nil {
		return dto.GradeSubmissionResponse{}, translateStoreError("submission", err)
	}

	s.logger.Info().
		Str("student_id", payload.StudentID).
		Uint("assignment_id", path.assignment.ID).
		Uint("score", payload.Score).
		Msg("submission scored")

	report, dispatchErr := s.trigger.Dispatch(ctx, SubmissionScored{
		ClassID:      path.class.ID,
		AssignmentID: path.assignment.ID,
		StudentID:    payload.StudentID,
	})
	if dispatchErr != nil {
		report.Failures = append(report.Failures, dto.RecomputeFailure{StudentID: payload.StudentID, Error: dispatchErr.Error()})
	}

	resp = dto.GradeSubmissionResponse{StudentID: payload.StudentID, Score: payload.Score, Recompute: report}
	enrollment, err := s.store.Repositories().Enrollments.Get(ctx, payload.StudentID, path.class.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", payload.StudentID).Msg("failed to read recomputed grade")
		return resp, nil
	}
	resp.Grade = enrollment.Grade
	return resp, nil
}

// SubmitAssignment creates the submission or replaces its contents. A replaced
// submission keeps its score.
func (s *gradebookService) SubmitAssignment(ctx context.Context, payload dto.SubmitAssignmentRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}
	contents := strings.TrimSpace(s.sanitizer.Sanitize(payload.Contents))
	if contents == "" {
		return dto.SubmissionResponse{}, invalidInput("contents are empty after sanitizing")
	}

	now := s.now()
	var submission models.Submission
	err := s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		path, err := resolveAssignment(ctx, repos, payload.ClassRef, payload.Category, payload.Assignment)
		if err != nil {
			return err
		}
		if path.assignment.IsPastDue(now) {
			return invalidInput("assignment %q is past due", path.assignment.Name)
		}
		enrolled, err := repos.Enrollments.Exists(ctx, payload.StudentID, path.class.ID)
		if err != nil {
			return translateStoreError("enrollment", err)
		}
		if !enrolled {
			return notFound("enrollment")
		}

		submission, err = repos.Submissions.Get(ctx, payload.StudentID, path.assignment.ID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			submission = models.Submission{
				StudentID:    payload.StudentID,
				AssignmentID: path.assignment.ID,
				Contents:     contents,
				SubmittedAt:  now,
			}
			return repos.Submissions.Create(ctx, &submission)
		case err != nil:
			return translateStoreError("submission", err)
		}

		submission.Contents = contents
		submission.SubmittedAt = now
		return repos.Submissions.UpdateContents(ctx, payload.StudentID, path.assignment.ID, contents, now)
	})
	if err != nil {
		return dto.SubmissionResponse{}, translateStoreError("submission", err)
	}

	s.logger.Info().Str("student_id", payload.StudentID).Uint("assignment_id", submission.AssignmentID).Msg("assignment submitted")
	return dto.SubmissionResponse{
		StudentID:   submission.StudentID,
		Assignment:  payload.Assignment,
		SubmittedAt: submission.SubmittedAt,
		Score:       submission.Score,
	}, nil
}

func (s *gradebookService) ListCategories(ctx context.Context, ref dto.ClassRef) ([]dto.CategoryResponse, error) {
	repos := s.store.Repositories()
	class, err := findClass(ctx, repos, ref)
	if err != nil {
		return nil, translateStoreError("class", err)
	}

	categories, err := repos.Categories.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, translateStoreError("assignment category", err)
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryResponse{Name: category.Name, Weight: category.Weight})
	}
	return responses, nil
}

func (s *gradebookService) ListAssignments(ctx context.Context, ref dto.ClassRef, category string) ([]dto.AssignmentSummaryResponse, error) {
	repos := s.store.Repositories()
	class, err := findClass(ctx, repos, ref)
	if err != nil {
		return nil, translateStoreError("class", err)
	}

	rows, err := repos.Assignments.ListByClass(ctx, class.ID, category)
	if err != nil {
		return nil, translateStoreError("assignment", err)
	}

	responses := make([]dto.AssignmentSummaryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.AssignmentSummaryResponse{
			Name:        row.Name,
			Category:    row.CategoryName,
			Due:         row.Due,
			Points:      row.Points,
			Submissions: row.Submissions,
		})
	}
	return responses, nil
}

func (s *gradebookService) GetAssignmentContents(ctx context.Context, ref dto.ClassRef, category, assignment string) (string, error) {
	path, err := resolveAssignment(ctx, s.store.Repositories(), ref, category, assignment)
	if err != nil {
		return "", err
	}
	return path.assignment.Instructions, nil
}

func (s *gradebookService) ListSubmissions(ctx context.Context, ref dto.ClassRef, category, assignment string) ([]dto.SubmissionSummaryResponse, error) {
	repos := s.store.Repositories()
	path, err := resolveAssignment(ctx, repos, ref, category, assignment)
	if err != nil {
		return nil, err
	}

	rows, err := repos.Submissions.ListByAssignment(ctx, path.assignment.ID)
	if err != nil {
		return nil, translateStoreError("submission", err)
	}

	responses := make([]dto.SubmissionSummaryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.SubmissionSummaryResponse{
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			StudentID:   row.StudentID,
			SubmittedAt: row.SubmittedAt,
			Score:       row.Score,
		})
	}
	return responses, nil
}

// GetSubmissionText returns an empty string when the student has not submitted.
func (s *gradebookService) GetSubmissionText(ctx context.Context, ref dto.ClassRef, category, assignment, studentID string) (string, error) {
	repos := s.store.Repositories()
	path, err := resolveAssignment(ctx, repos, ref, category, assignment)
	if err != nil {
		return "", err
	}

	submission, err := repos.Submissions.Get(ctx, studentID, path.assignment.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", translateStoreError("submission", err)
	}
	return submission.Contents, nil
}

func (s *gradebookService) ListStudentsInClass(ctx context.Context, ref dto.ClassRef) ([]dto.RosterEntryResponse, error) {
	repos := s.store.Repositories()
	class, err := findClass(ctx, repos, ref)
	if err != nil {
		return nil, translateStoreError("class", err)
	}

	rows, err := repos.Enrollments.ListRoster(ctx, class.ID)
	if err != nil {
		return nil, translateStoreError("enrollment", err)
	}

	responses := make([]dto.RosterEntryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.RosterEntryResponse{
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			StudentID:   row.StudentID,
			DateOfBirth: row.DateOfBirth,
			Grade:       row.Grade,
		})
	}
	return responses, nil
}
