package dto

import "github.com/noah-isme/gema-lms-api/internal/models"

// CreateDepartmentRequest describes a new department.
type CreateDepartmentRequest struct {
	Subject string `json:"subject" validate:"required,max=4"`
	Name    string `json:"name" validate:"required,max=100"`
}

// DepartmentResponse is returned when listing or creating departments.
type DepartmentResponse struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

// NewDepartmentResponse maps a department model.
func NewDepartmentResponse(department models.Department) DepartmentResponse {
	return DepartmentResponse{Subject: department.Subject, Name: department.Name}
}

// CreateCourseRequest describes a new catalog course.
type CreateCourseRequest struct {
	Subject string `json:"subject" validate:"required,max=4"`
	Number  int    `json:"number" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,max=100"`
}

// CourseResponse is a catalog course.
type CourseResponse struct {
	Subject string `json:"subject"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
}

// NewCourseResponse maps a course model.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{Subject: course.DepartmentSubject, Number: course.Number, Name: course.Name}
}

// CatalogDepartment is a department with every course it owns.
type CatalogDepartment struct {
	Subject string           `json:"subject"`
	Name    string           `json:"dname"`
	Courses []CourseResponse `json:"courses"`
}

// CreateClassRequest schedules a new offering of an existing course.
// Start and End are wall-clock times formatted as HH:MM or HH:MM:SS.
type CreateClassRequest struct {
	Subject     string `json:"subject" validate:"required,max=4"`
	Number      int    `json:"number" validate:"required,gt=0"`
	Season      string `json:"season" validate:"required,oneof=Spring Summer Fall Winter"`
	Year        int    `json:"year" validate:"required,gte=1900,lte=9999"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	Location    string `json:"location" validate:"required,max=100"`
	ProfessorID string `json:"professor_id" validate:"required,len=8"`
}

// ClassResponse describes a class offering.
type ClassResponse struct {
	ID          uint   `json:"id"`
	Subject     string `json:"subject"`
	Number      int    `json:"number"`
	Season      string `json:"season"`
	Year        int    `json:"year"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	ProfessorID string `json:"professor_id"`
}

// NewClassResponse maps a class model and its course.
func NewClassResponse(class models.Class, course models.Course) ClassResponse {
	return ClassResponse{
		ID:          class.ID,
		Subject:     course.DepartmentSubject,
		Number:      course.Number,
		Season:      class.Season,
		Year:        class.Year,
		Start:       class.StartTime.String(),
		End:         class.EndTime.String(),
		Location:    class.Location,
		ProfessorID: class.ProfessorID,
	}
}

// ClassOfferingResponse lists a course offering together with its professor.
type ClassOfferingResponse struct {
	Season             string `json:"season"`
	Year               int    `json:"year"`
	Location           string `json:"location"`
	Start              string `json:"start"`
	End                string `json:"end"`
	ProfessorFirstName string `json:"fname"`
	ProfessorLastName  string `json:"lname"`
}

// ProfessorClassResponse is one class a professor teaches.
type ProfessorClassResponse struct {
	Subject string `json:"subject"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Season  string `json:"season"`
	Year    int    `json:"year"`
}

// ClassSlotResponse identifies an existing offering in a schedule conflict report.
type ClassSlotResponse struct {
	ID       uint   `json:"id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location"`
}
