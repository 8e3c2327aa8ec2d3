package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
)

func TestCreateDepartmentRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	ctx := context.Background()
	payload := dto.CreateDepartmentRequest{Subject: "MATH", Name: "Mathematics"}

	resp, err := env.catalog.CreateDepartment(ctx, payload)
	require.NoError(t, err)
	require.Equal(t, "MATH", resp.Subject)

	_, err = env.catalog.CreateDepartment(ctx, payload)
	require.ErrorIs(t, err, ErrDuplicate)
	require.Equal(t, KindDuplicate, KindOf(err))

	_, err = env.catalog.CreateDepartment(ctx, dto.CreateDepartmentRequest{Subject: "MATH", Name: "Applied Mathematics"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateDepartmentConcurrentDuplicatesWriteOneRow(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	payload := dto.CreateDepartmentRequest{Subject: "PHYS", Name: "Physics"}

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.catalog.CreateDepartment(context.Background(), payload)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrDuplicate)
	}
	require.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, env.db.Model(&models.Department{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateCourseRequiresDepartment(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	_, err := env.catalog.CreateCourse(context.Background(), dto.CreateCourseRequest{Subject: "ART", Number: 1010, Name: "Drawing"})
	var missing *NotFoundError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "department", missing.Entity)
}

func TestCreateClassSchedule(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	env.seedClass(t)
	ctx := context.Background()

	offering := func(season, start, end string) dto.CreateClassRequest {
		return dto.CreateClassRequest{
			Subject: "CS", Number: 5530, Season: season, Year: 2026,
			Start: start, End: end, Location: "MEB 3147", ProfessorID: "u0000100",
		}
	}

	_, err := env.catalog.CreateClass(ctx, offering("Fall", "10:00", "11:00"))
	require.NoError(t, err, "back-to-back offerings must not conflict")

	_, err = env.catalog.CreateClass(ctx, offering("Fall", "09:30", "09:45"))
	var conflict *ScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	require.Equal(t, models.NewTimeOfDay(9, 0, 0), conflict.Conflicts[0].StartTime)
	require.Equal(t, KindScheduleConflict, KindOf(err))

	_, err = env.catalog.CreateClass(ctx, offering("Fall", "09:00", "10:00"))
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = env.catalog.CreateClass(ctx, offering("Fall", "12:00", "12:00"))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = env.catalog.CreateClass(ctx, offering("Fall", "nine", "10:00"))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.catalog.CreateClass(ctx, offering("Spring", "09:30", "09:45"))
	require.NoError(t, err, "other semesters are not checked")

	missingCourse := offering("Fall", "13:00", "14:00")
	missingCourse.Number = 9999
	_, err = env.catalog.CreateClass(ctx, missingCourse)
	var missing *NotFoundError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "course", missing.Entity)

	var count int64
	require.NoError(t, env.db.Model(&models.Class{}).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestCreateClassRequiresProfessor(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	env.seedClass(t)

	_, err := env.catalog.CreateClass(context.Background(), dto.CreateClassRequest{
		Subject: "CS", Number: 5530, Season: "Fall", Year: 2026,
		Start: "14:00", End: "15:00", Location: "MEB 3147", ProfessorID: "u0000999",
	})
	var missing *NotFoundError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "professor", missing.Entity)
}

func TestCreateClassValidatesPayload(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	_, err := env.catalog.CreateClass(context.Background(), dto.CreateClassRequest{Subject: "CS", Number: 5530, Season: "Monsoon"})
	require.Error(t, err)
	require.Equal(t, KindInvalidInput, KindOf(err))
}

func TestCatalogListings(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	env.seedClass(t)
	ctx := context.Background()

	departments, err := env.catalog.ListDepartments(ctx)
	require.NoError(t, err)
	require.Equal(t, []dto.DepartmentResponse{{Subject: "CS", Name: "Computer Science"}}, departments)

	catalog, err := env.catalog.GetCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	require.Equal(t, []dto.CourseResponse{{Subject: "CS", Number: 5530, Name: "Databases"}}, catalog[0].Courses)

	courses, err := env.catalog.ListCourses(ctx, "CS")
	require.NoError(t, err)
	require.Len(t, courses, 1)

	professors, err := env.catalog.ListProfessors(ctx, "CS")
	require.NoError(t, err)
	require.Equal(t, []dto.ProfessorResponse{{UID: "u0000100", FirstName: "Ada", LastName: "Lovelace"}}, professors)

	offerings, err := env.catalog.ListClassOfferings(ctx, "CS", 5530)
	require.NoError(t, err)
	require.Len(t, offerings, 1)
	require.Equal(t, "09:00:00", offerings[0].Start)
	require.Equal(t, "Lovelace", offerings[0].ProfessorLastName)

	taught, err := env.catalog.ListProfessorClasses(ctx, "u0000100")
	require.NoError(t, err)
	require.Equal(t, []dto.ProfessorClassResponse{{Subject: "CS", Number: 5530, Name: "Databases", Season: "Fall", Year: 2026}}, taught)
}
