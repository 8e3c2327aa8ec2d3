package models

import "time"

// Student is a learner identified by a fixed-length uid such as "u0000001".
type Student struct {
	ID           string    `gorm:"primaryKey;size:8" json:"uid"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	DateOfBirth  time.Time `gorm:"type:date" json:"dob"`
	MajorSubject string    `gorm:"size:4;not null;index" json:"major"`
	CreatedAt    time.Time `json:"created_at"`
}

// Professor teaches class offerings and belongs to a home department.
type Professor struct {
	ID                string    `gorm:"primaryKey;size:8" json:"uid"`
	FirstName         string    `gorm:"size:100;not null" json:"first_name"`
	LastName          string    `gorm:"size:100;not null" json:"last_name"`
	DateOfBirth       time.Time `gorm:"type:date" json:"dob"`
	DepartmentSubject string    `gorm:"size:4;not null;index" json:"department"`
	CreatedAt         time.Time `json:"created_at"`
}

// Administrator manages the catalog.
type Administrator struct {
	ID        string    `gorm:"primaryKey;size:8" json:"uid"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}
