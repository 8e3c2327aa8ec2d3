package dto

import "time"

// User roles resolved by uid lookups.
const (
	RoleStudent       = "student"
	RoleProfessor     = "professor"
	RoleAdministrator = "administrator"
)

// CreateStudentRequest registers a student.
type CreateStudentRequest struct {
	UID         string    `json:"uid" validate:"required,len=8"`
	FirstName   string    `json:"fname" validate:"required,max=100"`
	LastName    string    `json:"lname" validate:"required,max=100"`
	DateOfBirth time.Time `json:"dob"`
	Major       string    `json:"major" validate:"required,max=4"`
}

// CreateProfessorRequest registers a professor.
type CreateProfessorRequest struct {
	UID         string    `json:"uid" validate:"required,len=8"`
	FirstName   string    `json:"fname" validate:"required,max=100"`
	LastName    string    `json:"lname" validate:"required,max=100"`
	DateOfBirth time.Time `json:"dob"`
	Department  string    `json:"department" validate:"required,max=4"`
}

// CreateAdministratorRequest registers an administrator.
type CreateAdministratorRequest struct {
	UID       string `json:"uid" validate:"required,len=8"`
	FirstName string `json:"fname" validate:"required,max=100"`
	LastName  string `json:"lname" validate:"required,max=100"`
}

// UserResponse describes any kind of user.
type UserResponse struct {
	UID        string `json:"uid"`
	FirstName  string `json:"fname"`
	LastName   string `json:"lname"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// ProfessorResponse is a professor in a department listing.
type ProfessorResponse struct {
	UID       string `json:"uid"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}
