package service

import (
	"context"

	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

// UniquenessGuard rejects a candidate entity whose natural key is already stored.
// Keys are compared exactly as given; callers must run the check and the insert
// in the same transaction. Unique indexes on the same columns catch inserts that
// race past the check, and those surface as ErrDuplicate too.
type UniquenessGuard struct{}

// Department checks the (subject, name) pair.
func (UniquenessGuard) Department(ctx context.Context, repos repository.Repositories, subject, name string) error {
	found, err := repos.Departments.Exists(ctx, subject, name)
	return reject("department", found, err)
}

// Course checks the (department, number) pair.
func (UniquenessGuard) Course(ctx context.Context, repos repository.Repositories, subject string, number int) error {
	found, err := repos.Courses.Exists(ctx, subject, number)
	return reject("course", found, err)
}

// ClassOffering checks for an identical offering of the course in the same semester and time slot.
func (UniquenessGuard) ClassOffering(ctx context.Context, repos repository.Repositories, candidate models.Class) error {
	found, err := repos.Classes.ExistsSlot(ctx, candidate)
	return reject("class", found, err)
}

// Category checks the (class, name) pair.
func (UniquenessGuard) Category(ctx context.Context, repos repository.Repositories, classID uint, name string) error {
	found, err := repos.Categories.Exists(ctx, classID, name)
	return reject("assignment category", found, err)
}

// Assignment checks the (category, name) pair.
func (UniquenessGuard) Assignment(ctx context.Context, repos repository.Repositories, categoryID uint, name string) error {
	found, err := repos.Assignments.Exists(ctx, categoryID, name)
	return reject("assignment", found, err)
}

// Enrollment checks the (student, class) pair.
func (UniquenessGuard) Enrollment(ctx context.Context, repos repository.Repositories, studentID string, classID uint) error {
	found, err := repos.Enrollments.Exists(ctx, studentID, classID)
	return reject("enrollment", found, err)
}

// User checks that no student, professor or administrator holds the uid.
func (UniquenessGuard) User(ctx context.Context, repos repository.Repositories, uid string) error {
	found, err := repos.People.UIDTaken(ctx, uid)
	return reject("user", found, err)
}

func reject(entity string, found bool, err error) error {
	if err != nil {
		return translateStoreError(entity, err)
	}
	if found {
		return duplicate(entity)
	}
	return nil
}
