package models

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment links a student to a class offering and carries the computed letter grade.
type Enrollment struct {
	StudentID string    `gorm:"primaryKey;size:8" json:"student_id"`
	ClassID   uint      `gorm:"primaryKey;autoIncrement:false" json:"class_id"`
	Grade     string    `gorm:"size:2;not null" json:"grade"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GradeChange records a letter grade transition written by a recompute.
type GradeChange struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	StudentID     string            `gorm:"size:8;not null;index:idx_grade_change_enrollment" json:"student_id"`
	ClassID       uint              `gorm:"not null;index:idx_grade_change_enrollment" json:"class_id"`
	PreviousGrade string            `gorm:"size:2;not null" json:"previous_grade"`
	NewGrade      string            `gorm:"size:2;not null" json:"new_grade"`
	Percent       float64           `json:"percent"`
	Trigger       string            `gorm:"size:32;not null" json:"trigger"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
}
