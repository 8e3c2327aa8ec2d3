package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/grading"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/observability"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

// Recompute trigger names, recorded on reports, audit rows and metrics.
const (
	TriggerAssignmentCreated = "assignment_created"
	TriggerSubmissionScored  = "submission_scored"
)

// RecomputeEvent is a stored change that can move class grades.
type RecomputeEvent interface {
	Trigger() string
	Class() uint
}

// AssignmentCreated fires after a new assignment is committed. Only enrollments
// that already hold a letter grade are recomputed.
type AssignmentCreated struct {
	ClassID      uint
	CategoryID   uint
	AssignmentID uint
}

// Trigger implements RecomputeEvent.
func (AssignmentCreated) Trigger() string { return TriggerAssignmentCreated }

// Class implements RecomputeEvent.
func (e AssignmentCreated) Class() uint { return e.ClassID }

// SubmissionScored fires after a submission score is committed. The student's
// grade is recomputed even when it is still ungraded.
type SubmissionScored struct {
	ClassID      uint
	AssignmentID uint
	StudentID    string
}

// Trigger implements RecomputeEvent.
func (SubmissionScored) Trigger() string { return TriggerSubmissionScored }

// Class implements RecomputeEvent.
func (e SubmissionScored) Class() uint { return e.ClassID }

// RecomputeTrigger re-runs the grade calculator for every enrollment an event affects.
type RecomputeTrigger interface {
	Dispatch(ctx context.Context, event RecomputeEvent) (dto.RecomputeReport, error)
}

type recomputeTrigger struct {
	store       repository.Store
	calculator  GradeCalculator
	cache       GPACache
	publisher   GradePublisher
	concurrency int
	logger      zerolog.Logger
	now         func() time.Time
}

// NewRecomputeTrigger wires the trigger. cache and publisher may be nil.
func NewRecomputeTrigger(store repository.Store, cache GPACache, publisher GradePublisher, concurrency int, logger zerolog.Logger) RecomputeTrigger {
	if concurrency < 1 {
		concurrency = 1
	}
	return &recomputeTrigger{
		store:       store,
		cache:       cache,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "recompute_trigger").Logger(),
		now:         time.Now,
	}
}

type recomputeTarget struct {
	studentID  string
	onlyGraded bool
	metadata   map[string]interface{}
}

type recomputeOutcome string

const (
	outcomeChanged   recomputeOutcome = "changed"
	outcomeUnchanged recomputeOutcome = "unchanged"
	outcomeSkipped   recomputeOutcome = "skipped"
	outcomeFailed    recomputeOutcome = "failed"
)

// Dispatch returns an error only when the affected enrollments cannot be listed.
// Per-student failures are collected in the report and never stop the other students.
func (t *recomputeTrigger) Dispatch(ctx context.Context, event RecomputeEvent) (dto.RecomputeReport, error) {
	tracer := otel.Tracer("github.com/noah-isme/gema-lms-api/internal/service/recompute")
	ctx, span := tracer.Start(ctx, "grades.recompute")
	span.SetAttributes(
		attribute.String("recompute.trigger", event.Trigger()),
		attribute.Int64("recompute.class_id", int64(event.Class())),
	)
	defer span.End()

	report := dto.RecomputeReport{Trigger: event.Trigger(), ClassID: event.Class(), Failures: []dto.RecomputeFailure{}}

	targets, err := t.targets(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "target_lookup_failed")
		return report, err
	}
	span.SetAttributes(attribute.Int("recompute.targets", len(targets)))

	started := t.now()
	var (
		mu    sync.Mutex
		group errgroup.Group
	)
	group.SetLimit(t.concurrency)

	for _, target := range targets {
		target := target
		group.Go(func() error {
			outcome, err := t.recompute(ctx, event, target)
			observability.GradeRecomputes().WithLabelValues(event.Trigger(), string(outcome)).Inc()

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeChanged:
				report.Recomputed++
				report.Changed++
			case outcomeUnchanged:
				report.Recomputed++
			case outcomeFailed:
				report.Failures = append(report.Failures, dto.RecomputeFailure{StudentID: target.studentID, Error: err.Error()})
			}
			return nil
		})
	}
	_ = group.Wait()
	observability.GradeRecomputeDuration().WithLabelValues(event.Trigger()).Observe(t.now().Sub(started).Seconds())

	span.SetAttributes(
		attribute.Int("recompute.recomputed", report.Recomputed),
		attribute.Int("recompute.changed", report.Changed),
		attribute.Int("recompute.failures", len(report.Failures)),
	)
	if report.Failed() {
		span.SetStatus(codes.Error, "partial_failure")
		t.logger.Warn().
			Str("trigger", event.Trigger()).
			Uint("class_id", event.Class()).
			Int("failures", len(report.Failures)).
			Msg("grade recompute finished with failures")
	}

	return report, nil
}

func (t *recomputeTrigger) targets(ctx context.Context, event RecomputeEvent) ([]recomputeTarget, error) {
	switch e := event.(type) {
	case SubmissionScored:
		return []recomputeTarget{{
			studentID: e.StudentID,
			metadata:  map[string]interface{}{"assignment_id": e.AssignmentID},
		}}, nil
	case AssignmentCreated:
		enrollments, err := t.store.Repositories().Enrollments.ListGradedByClass(ctx, e.ClassID, string(grading.Ungraded))
		if err != nil {
			return nil, translateStoreError("enrollment", err)
		}

		targets := make([]recomputeTarget, 0, len(enrollments))
		for _, enrollment := range enrollments {
			targets = append(targets, recomputeTarget{
				studentID:  enrollment.StudentID,
				onlyGraded: true,
				metadata: map[string]interface{}{
					"assignment_id": e.AssignmentID,
					"category_id":   e.CategoryID,
				},
			})
		}
		return targets, nil
	default:
		return nil, invalidInput("unsupported recompute event %T", event)
	}
}

// recompute rewrites one enrollment grade in its own transaction. The row lock
// taken by GetForUpdate serializes concurrent writers of the same enrollment.
func (t *recomputeTrigger) recompute(ctx context.Context, event RecomputeEvent, target recomputeTarget) (recomputeOutcome, error) {
	classID := event.Class()
	outcome := outcomeUnchanged
	var change GradeChangedEvent

	err := t.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		enrollment, err := repos.Enrollments.GetForUpdate(ctx, target.studentID, classID)
		if err != nil {
			return translateStoreError("enrollment", err)
		}
		if target.onlyGraded && !grading.IsGraded(enrollment.Grade) {
			outcome = outcomeSkipped
			return nil
		}

		result, err := t.calculator.Compute(ctx, repos, target.studentID, classID)
		if err != nil {
			return err
		}

		grade := string(result.Letter)
		if grade == enrollment.Grade {
			return nil
		}

		if err := repos.Enrollments.UpdateGrade(ctx, target.studentID, classID, grade); err != nil {
			return translateStoreError("enrollment", err)
		}

		metadata := datatypes.JSONMap{
			"percent":    result.Percent,
			"raw_total":  result.RawTotal,
			"weight_sum": result.WeightSum,
		}
		for key, value := range target.metadata {
			metadata[key] = value
		}
		audit := models.GradeChange{
			StudentID:     target.studentID,
			ClassID:       classID,
			PreviousGrade: enrollment.Grade,
			NewGrade:      grade,
			Percent:       result.Percent,
			Trigger:       event.Trigger(),
			Metadata:      metadata,
		}
		if err := repos.GradeChanges.Create(ctx, &audit); err != nil {
			return translateStoreError("grade change", err)
		}

		outcome = outcomeChanged
		change = GradeChangedEvent{
			StudentID:     target.studentID,
			ClassID:       classID,
			PreviousGrade: enrollment.Grade,
			Grade:         grade,
			Percent:       result.Percent,
			Trigger:       event.Trigger(),
			OccurredAt:    t.now(),
		}
		return nil
	})
	if err != nil {
		err = translateStoreError("enrollment", err)
		t.logger.Warn().Err(err).
			Str("student_id", target.studentID).
			Uint("class_id", classID).
			Str("trigger", event.Trigger()).
			Msg("grade recompute failed")
		return outcomeFailed, err
	}

	if outcome == outcomeChanged {
		t.logger.Info().
			Str("student_id", change.StudentID).
			Uint("class_id", classID).
			Str("previous_grade", change.PreviousGrade).
			Str("grade", change.Grade).
			Float64("percent", change.Percent).
			Msg("grade recomputed")
		t.announce(ctx, change)
	}

	return outcome, nil
}

func (t *recomputeTrigger) announce(ctx context.Context, change GradeChangedEvent) {
	if t.cache != nil {
		if err := t.cache.Invalidate(ctx, change.StudentID); err != nil {
			t.logger.Warn().Err(err).Str("student_id", change.StudentID).Msg("failed to invalidate gpa cache")
		}
	}
	if t.publisher != nil {
		if err := t.publisher.Publish(ctx, change); err != nil {
			t.logger.Warn().Err(err).Str("student_id", change.StudentID).Msg("failed to publish grade change")
		}
	}
}
