package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// DirectoryHandler registers and resolves users.
type DirectoryHandler struct {
	service service.DirectoryService
	logger  zerolog.Logger
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(service service.DirectoryService, logger zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
		logger:  logger.With().Str("component", "directory_handler").Logger(),
	}
}

// Register wires directory routes.
func (h *DirectoryHandler) Register(router fiber.Router) {
	router.Post("/students", h.createStudent)
	router.Post("/professors", h.createProfessor)
	router.Post("/administrators", h.createAdministrator)
	router.Get("/users/:uid", h.getUser)
}

func (h *DirectoryHandler) createStudent(c *fiber.Ctx) error {
	var payload dto.CreateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	user, err := h.service.CreateStudent(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create student")
	}

	return utils.SendCreated(c, "student created", user)
}

func (h *DirectoryHandler) createProfessor(c *fiber.Ctx) error {
	var payload dto.CreateProfessorRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	user, err := h.service.CreateProfessor(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create professor")
	}

	return utils.SendCreated(c, "professor created", user)
}

func (h *DirectoryHandler) createAdministrator(c *fiber.Ctx) error {
	var payload dto.CreateAdministratorRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	user, err := h.service.CreateAdministrator(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create administrator")
	}

	return utils.SendCreated(c, "administrator created", user)
}

func (h *DirectoryHandler) getUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("uid"))
	if err != nil {
		return respondError(c, h.logger, err, "load user")
	}

	return utils.SendSuccess(c, "user retrieved", user)
}
