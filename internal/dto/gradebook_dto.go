package dto

import "time"

// ClassRef names a class offering by course and semester.
type ClassRef struct {
	Subject string `json:"subject" validate:"required,max=4"`
	Number  int    `json:"number" validate:"required,gt=0"`
	Season  string `json:"season" validate:"required,oneof=Spring Summer Fall Winter"`
	Year    int    `json:"year" validate:"required,gte=1900,lte=9999"`
	// Start selects one of several offerings in the same semester, as HH:MM.
	Start   string `json:"start,omitempty"`
}

// CreateCategoryRequest adds a weighted assignment category to a class.
type CreateCategoryRequest struct {
	ClassRef
	Name   string `json:"category" validate:"required,max=100"`
	Weight uint   `json:"weight" validate:"required,gt=0"`
}

// CategoryResponse describes an assignment category.
type CategoryResponse struct {
	Name   string `json:"name"`
	Weight uint   `json:"weight"`
}

// CreateAssignmentRequest adds an assignment to a class category.
type CreateAssignmentRequest struct {
	ClassRef
	Category     string    `json:"category" validate:"required,max=100"`
	Name         string    `json:"name" validate:"required,max=100"`
	Points       uint      `json:"points" validate:"required,gt=0"`
	Due          time.Time `json:"due" validate:"required"`
	Instructions string    `json:"instructions" validate:"required"`
}

// AssignmentResponse describes an assignment.
type AssignmentResponse struct {
	ID           uint      `json:"id"`
	Category     string    `json:"category"`
	Name         string    `json:"name"`
	Points       uint      `json:"points"`
	Due          time.Time `json:"due"`
	Instructions string    `json:"instructions"`
}

// AssignmentCreatedResponse pairs the new assignment with the grade recompute it caused.
type AssignmentCreatedResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Recompute  RecomputeReport    `json:"recompute"`
}

// AssignmentSummaryResponse lists an assignment with its hand-in count.
type AssignmentSummaryResponse struct {
	Name        string    `json:"aname"`
	Category    string    `json:"cname"`
	Due         time.Time `json:"due"`
	Points      uint      `json:"points"`
	Submissions int64     `json:"submissions"`
}

// SubmitAssignmentRequest hands in text for an assignment.
type SubmitAssignmentRequest struct {
	ClassRef
	Category   string `json:"category" validate:"required"`
	Assignment string `json:"assignment" validate:"required"`
	StudentID  string `json:"uid" validate:"required,len=8"`
	Contents   string `json:"contents" validate:"required"`
}

// SubmissionResponse describes a stored submission.
type SubmissionResponse struct {
	StudentID   string    `json:"uid"`
	Assignment  string    `json:"assignment"`
	SubmittedAt time.Time `json:"time"`
	Score       uint      `json:"score"`
}

// SubmissionSummaryResponse is one row of an assignment's hand-in list.
type SubmissionSummaryResponse struct {
	FirstName   string    `json:"fname"`
	LastName    string    `json:"lname"`
	StudentID   string    `json:"uid"`
	SubmittedAt time.Time `json:"time"`
	Score       uint      `json:"score"`
}

// GradeSubmissionRequest scores a student's submission.
type GradeSubmissionRequest struct {
	ClassRef
	Category   string `json:"category" validate:"required"`
	Assignment string `json:"assignment" validate:"required"`
	StudentID  string `json:"uid" validate:"required,len=8"`
	Score      uint   `json:"score"`
}

// GradeSubmissionResponse reports the stored score and the student's recomputed class grade.
type GradeSubmissionResponse struct {
	StudentID string          `json:"uid"`
	Score     uint            `json:"score"`
	Grade     string          `json:"grade"`
	Recompute RecomputeReport `json:"recompute"`
}

// RosterEntryResponse is one enrolled student with their class grade.
type RosterEntryResponse struct {
	FirstName   string    `json:"fname"`
	LastName    string    `json:"lname"`
	StudentID   string    `json:"uid"`
	DateOfBirth time.Time `json:"dob"`
	Grade       string    `json:"grade"`
}

// RecomputeFailure names one student whose grade could not be recomputed.
type RecomputeFailure struct {
	StudentID string `json:"uid"`
	Error     string `json:"error"`
}

// RecomputeReport summarizes a cascading grade recompute.
type RecomputeReport struct {
	Trigger    string             `json:"trigger"`
	ClassID    uint               `json:"class_id"`
	Recomputed int                `json:"recomputed"`
	Changed    int                `json:"changed"`
	Failures   []RecomputeFailure `json:"failures"`
}

// Failed reports whether any student in the batch could not be recomputed.
func (r RecomputeReport) Failed() bool {
	return len(r.Failures) > 0
}
