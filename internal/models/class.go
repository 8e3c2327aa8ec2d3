package models

import "time"

// Class is a scheduled offering of a course in one season of one year.
type Class struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;uniqueIndex:idx_class_offering_slot" json:"course_id"`
	Year        int       `gorm:"not null;uniqueIndex:idx_class_offering_slot" json:"year"`
	Season      string    `gorm:"size:6;not null;uniqueIndex:idx_class_offering_slot" json:"season"`
	StartTime   TimeOfDay `gorm:"not null;uniqueIndex:idx_class_offering_slot" json:"start_time"`
	EndTime     TimeOfDay `gorm:"not null;uniqueIndex:idx_class_offering_slot" json:"end_time"`
	Location    string    `gorm:"size:100;not null" json:"location"`
	ProfessorID string    `gorm:"size:8;not null;index" json:"professor_id"`
	CreatedAt   time.Time `json:"created_at"`
	Course      Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
	Professor   Professor `gorm:"foreignKey:ProfessorID;references:ID" json:"professor"`
}
