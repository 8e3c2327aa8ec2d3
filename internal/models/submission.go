package models

import "time"

// Submission is a student's text answer to an assignment. Score stays 0 until graded.
type Submission struct {
	StudentID    string    `gorm:"primaryKey;size:8" json:"student_id"`
	AssignmentID uint      `gorm:"primaryKey;autoIncrement:false" json:"assignment_id"`
	Contents     string    `gorm:"type:text" json:"contents"`
	SubmittedAt  time.Time `gorm:"not null" json:"submitted_at"`
	Score        uint      `gorm:"not null;default:0" json:"score"`
	UpdatedAt    time.Time `json:"updated_at"`
}
