package service

import "github.com/noah-isme/gema-lms-api/internal/models"

// TimeRange is a half-open [Start, End) interval of wall-clock time.
type TimeRange struct {
	Start models.TimeOfDay
	End   models.TimeOfDay
}

// Valid reports whether the range is non-empty and within a day.
func (r TimeRange) Valid() bool {
	return r.Start.Valid() && r.End.Valid() && r.Start < r.End
}

// Overlaps reports whether two ranges share any instant. Back-to-back ranges do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// ScheduleConflictDetector rejects a class offering that overlaps another offering
// of the same course in the same season and year. Room and professor collisions
// across different courses are not checked.
type ScheduleConflictDetector struct{}

// Check returns ErrInvalidRange for an empty or inverted candidate range and a
// *ScheduleConflictError listing every overlapping offering otherwise.
func (ScheduleConflictDetector) Check(candidate TimeRange, offerings []models.Class) error {
	if !candidate.Valid() {
		return ErrInvalidRange
	}

	var conflicts []models.Class
	for _, offering := range offerings {
		existing := TimeRange{Start: offering.StartTime, End: offering.EndTime}
		if existing.Overlaps(candidate) {
			conflicts = append(conflicts, offering)
		}
	}

	if len(conflicts) > 0 {
		return &ScheduleConflictError{Conflicts: conflicts}
	}
	return nil
}
