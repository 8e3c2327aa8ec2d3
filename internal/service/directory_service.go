package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/models"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

// DirectoryService registers people and resolves uids to users.
type DirectoryService interface {
	CreateStudent(ctx context.Context, payload dto.CreateStudentRequest) (dto.UserResponse, error)
	CreateProfessor(ctx context.Context, payload dto.CreateProfessorRequest) (dto.UserResponse, error)
	CreateAdministrator(ctx context.Context, payload dto.CreateAdministratorRequest) (dto.UserResponse, error)
	GetUser(ctx context.Context, uid string) (dto.UserResponse, error)
}

type directoryService struct {
	store     repository.Store
	guard     UniquenessGuard
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(store repository.Store, validate *validator.Validate, logger zerolog.Logger) DirectoryService {
	return &directoryService{
		store:     store,
		validator: validate,
		logger:    logger.With().Str("component", "directory_service").Logger(),
	}
}

func (s *directoryService) CreateStudent(ctx context.Context, payload dto.CreateStudentRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	student := models.Student{
		ID:           payload.UID,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		DateOfBirth:  payload.DateOfBirth,
		MajorSubject: payload.Major,
	}
	err := s.register(ctx, student.ID, student.MajorSubject, func(repos repository.Repositories) error {
		return repos.People.CreateStudent(ctx, &student)
	})
	if err != nil {
		return dto.UserResponse{}, err
	}

	return studentUser(student), nil
}

func (s *directoryService) CreateProfessor(ctx context.Context, payload dto.CreateProfessorRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	professor := models.Professor{
		ID:                payload.UID,
		FirstName:         payload.FirstName,
		LastName:          payload.LastName,
		DateOfBirth:       payload.DateOfBirth,
		DepartmentSubject: payload.Department,
	}
	err := s.register(ctx, professor.ID, professor.DepartmentSubject, func(repos repository.Repositories) error {
		return repos.People.CreateProfessor(ctx, &professor)
	})
	if err != nil {
		return dto.UserResponse{}, err
	}

	return professorUser(professor), nil
}

func (s *directoryService) CreateAdministrator(ctx context.Context, payload dto.CreateAdministratorRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	administrator := models.Administrator{ID: payload.UID, FirstName: payload.FirstName, LastName: payload.LastName}
	err := s.register(ctx, administrator.ID, "", func(repos repository.Repositories) error {
		return repos.People.CreateAdministrator(ctx, &administrator)
	})
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.UserResponse{
		UID:       administrator.ID,
		FirstName: administrator.FirstName,
		LastName:  administrator.LastName,
		Role:      dto.RoleAdministrator,
	}, nil
}

// register runs create after checking the uid is free and, when department is set, that it exists.
func (s *directoryService) register(ctx context.Context, uid, department string, create func(repos repository.Repositories) error) error {
	err := s.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		if department != "" {
			if _, err := repos.Departments.GetBySubject(ctx, department); err != nil {
				return translateStoreError("department", err)
			}
		}
		if err := s.guard.User(ctx, repos, uid); err != nil {
			return err
		}
		return create(repos)
	})
	if err != nil {
		return translateStoreError("user", err)
	}

	s.logger.Info().Str("uid", uid).Msg("user registered")
	return nil
}

// GetUser resolves uid against students, then professors, then administrators.
func (s *directoryService) GetUser(ctx context.Context, uid string) (dto.UserResponse, error) {
	repos := s.store.Repositories()

	student, err := repos.People.GetStudent(ctx, uid)
	if err == nil {
		return studentUser(student), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, translateStoreError("user", err)
	}

	professor, err := repos.People.GetProfessor(ctx, uid)
	if err == nil {
		return professorUser(professor), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, translateStoreError("user", err)
	}

	administrator, err := repos.People.GetAdministrator(ctx, uid)
	if err != nil {
		return dto.UserResponse{}, translateStoreError("user", err)
	}
	return dto.UserResponse{
		UID:       administrator.ID,
		FirstName: administrator.FirstName,
		LastName:  administrator.LastName,
		Role:      dto.RoleAdministrator,
	}, nil
}

func studentUser(student models.Student) dto.UserResponse {
	return dto.UserResponse{
		UID:        student.ID,
		FirstName:  student.FirstName,
		LastName:   student.LastName,
		Role:       dto.RoleStudent,
		Department: student.MajorSubject,
	}
}

func professorUser(professor models.Professor) dto.UserResponse {
	return dto.UserResponse{
		UID:        professor.ID,
		FirstName:  professor.FirstName,
		LastName:   professor.LastName,
		Role:       dto.RoleProfessor,
		Department: professor.DepartmentSubject,
	}
}
