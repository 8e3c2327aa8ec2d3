package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-lms-api/internal/dto"
)

func TestDirectoryRegistersAndResolvesUsers(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	env.seedClass(t)
	ctx := context.Background()

	_, err := env.directory.CreateStudent(ctx, dto.CreateStudentRequest{UID: "u0000001", FirstName: "Grace", LastName: "Hopper", Major: "CS"})
	require.NoError(t, err)
	_, err = env.directory.CreateAdministrator(ctx, dto.CreateAdministratorRequest{UID: "u0000900", FirstName: "Root", LastName: "Admin"})
	require.NoError(t, err)

	student, err := env.directory.GetUser(ctx, "u0000001")
	require.NoError(t, err)
	require.Equal(t, dto.RoleStudent, student.Role)
	require.Equal(t, "CS", student.Department)

	professor, err := env.directory.GetUser(ctx, "u0000100")
	require.NoError(t, err)
	require.Equal(t, dto.RoleProfessor, professor.Role)

	admin, err := env.directory.GetUser(ctx, "u0000900")
	require.NoError(t, err)
	require.Equal(t, dto.RoleAdministrator, admin.Role)

	_, err = env.directory.GetUser(ctx, "u0000404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectoryRejectsTakenUIDAcrossRoles(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	env.seedClass(t)
	ctx := context.Background()

	_, err := env.directory.CreateStudent(ctx, dto.CreateStudentRequest{UID: "u0000100", FirstName: "Same", LastName: "Uid", Major: "CS"})
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = env.directory.CreateProfessor(ctx, dto.CreateProfessorRequest{UID: "u0000101", FirstName: "No", LastName: "Dept", Department: "BIO"})
	var missing *NotFoundError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "department", missing.Entity)

	_, err = env.directory.CreateStudent(ctx, dto.CreateStudentRequest{UID: "short", FirstName: "Bad", LastName: "Uid", Major: "CS"})
	require.Equal(t, KindInvalidInput, KindOf(err))
}
