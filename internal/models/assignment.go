package models

import "time"

// AssignmentCategory groups a class's assignments under a shared weight.
type AssignmentCategory struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ClassID     uint         `gorm:"not null;uniqueIndex:idx_category_class_name" json:"class_id"`
	Name        string       `gorm:"size:100;not null;uniqueIndex:idx_category_class_name" json:"name"`
	Weight      uint         `gorm:"not null" json:"weight"`
	CreatedAt   time.Time    `json:"created_at"`
	Assignments []Assignment `gorm:"foreignKey:CategoryID" json:"assignments,omitempty"`
}

// Assignment is a gradable unit of work inside a category.
type Assignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;uniqueIndex:idx_assignment_category_name" json:"category_id"`
	Name         string    `gorm:"size:100;not null;uniqueIndex:idx_assignment_category_name" json:"name"`
	Due          time.Time `gorm:"not null" json:"due"`
	Points       uint      `gorm:"not null" json:"points"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.Due)
}
