package dto

import "time"

// EnrollRequest registers a student in a class offering.
type EnrollRequest struct {
	ClassRef
	StudentID string `json:"uid" validate:"required,len=8"`
}

// EnrollmentResponse describes a stored enrollment.
type EnrollmentResponse struct {
	StudentID string `json:"uid"`
	ClassID   uint   `json:"class_id"`
	Grade     string `json:"grade"`
}

// GPAResponse carries a student's grade point average.
type GPAResponse struct {
	StudentID string  `json:"uid"`
	GPA       float64 `json:"gpa"`
	Cached    bool    `json:"cached"`
}

// StudentClassResponse is one class on a student's schedule.
type StudentClassResponse struct {
	Subject string `json:"subject"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Season  string `json:"season"`
	Year    int    `json:"year"`
	Grade   string `json:"grade"`
}

// StudentAssignmentResponse is an assignment as a student sees it; Score is nil when nothing was submitted.
type StudentAssignmentResponse struct {
	Name     string    `json:"aname"`
	Category string    `json:"cname"`
	Due      time.Time `json:"due"`
	Score    *uint     `json:"score"`
}
