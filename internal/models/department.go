package models

import "time"

// Department is an academic department keyed by its subject code (e.g. "CS").
type Department struct {
	Subject   string    `gorm:"primaryKey;size:4" json:"subject"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Courses   []Course  `gorm:"foreignKey:DepartmentSubject;references:Subject" json:"courses,omitempty"`
}

// Course is a catalog entry owned by exactly one department.
type Course struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	DepartmentSubject string    `gorm:"size:4;not null;uniqueIndex:idx_course_department_number" json:"subject"`
	Number            int       `gorm:"not null;uniqueIndex:idx_course_department_number" json:"number"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	CreatedAt         time.Time `json:"created_at"`
}
