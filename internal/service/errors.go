package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// Outcome sentinels. Every error returned by the services wraps exactly one of them.
var (
	// ErrDuplicate indicates the natural key of a new entity is already taken.
	ErrDuplicate = errors.New("duplicate")
	// ErrScheduleConflict indicates a class offering overlaps an existing one.
	ErrScheduleConflict = errors.New("schedule conflict")
	// ErrInvalidRange indicates a class would end at or before it starts.
	ErrInvalidRange = errors.New("invalid time range")
	// ErrNotFound indicates a referenced parent entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates the request failed a precondition.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreFailure indicates the entity store could not serve the request.
	ErrStoreFailure = errors.New("store failure")
)

// ErrorKind tags an operation outcome for the calling layer.
type ErrorKind string

// Known error kinds.
const (
	KindNone             ErrorKind = ""
	KindDuplicate        ErrorKind = "duplicate"
	KindScheduleConflict ErrorKind = "schedule_conflict"
	KindInvalidRange     ErrorKind = "invalid_range"
	KindNotFound         ErrorKind = "not_found"
	KindInvalidInput     ErrorKind = "invalid_input"
	KindStoreFailure     ErrorKind = "store_failure"
)

// KindOf classifies err. Errors that match no known outcome count as store failures.
func KindOf(err error) ErrorKind {
	var validationErrors validator.ValidationErrors
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrScheduleConflict):
		return KindScheduleConflict
	case errors.Is(err, ErrInvalidRange):
		return KindInvalidRange
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput), errors.As(err, &validationErrors):
		return KindInvalidInput
	default:
		return KindStoreFailure
	}
}

// DuplicateError names the entity whose natural key collided.
type DuplicateError struct {
	Entity string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Unwrap exposes ErrDuplicate to errors.Is.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Unwrap exposes ErrNotFound to errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ScheduleConflictError lists the existing offerings a candidate overlaps.
type ScheduleConflictError struct {
	Conflicts []models.Class
}

func (e *ScheduleConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		c := e.Conflicts[0]
		return fmt.Sprintf("class overlaps existing offering %s-%s in %s", c.StartTime, c.EndTime, c.Location)
	}
	return fmt.Sprintf("class overlaps %d existing offerings", len(e.Conflicts))
}

// Unwrap exposes ErrScheduleConflict to errors.Is.
func (e *ScheduleConflictError) Unwrap() error {
	return ErrScheduleConflict
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func duplicate(entity string) error {
	return &DuplicateError{Entity: entity}
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// translateStoreError maps raw store errors onto outcome errors. Errors that
// already carry an outcome pass through untouched.
func translateStoreError(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case KindOf(err) != KindStoreFailure:
		return err
	case errors.Is(err, ErrStoreFailure):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate(entity)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStoreFailure, entity, err)
	}
}
