package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// EnrollmentHandler exposes enrollment and student standing endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register wires enrollment routes.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("/classes/:subject/:number/:season/:year/enrollments", h.enroll)
	router.Get("/classes/:subject/:number/:season/:year/students/:uid/assignments", h.studentAssignments)
	router.Get("/students/:uid/gpa", h.gpa)
	router.Get("/students/:uid/classes", h.studentClasses)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}
	payload.ClassRef = ref

	enrollment, err := h.service.Enroll(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "enroll student")
	}

	return utils.SendCreated(c, "student enrolled", enrollment)
}

func (h *EnrollmentHandler) gpa(c *fiber.Ctx) error {
	gpa, err := h.service.GetGPA(c.UserContext(), c.Params("uid"))
	if err != nil {
		return respondError(c, h.logger, err, "compute gpa")
	}

	if gpa.Cached {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "gpa retrieved", gpa)
}

func (h *EnrollmentHandler) studentClasses(c *fiber.Ctx) error {
	classes, err := h.service.ListStudentClasses(c.UserContext(), c.Params("uid"))
	if err != nil {
		return respondError(c, h.logger, err, "list student classes")
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *EnrollmentHandler) studentAssignments(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}

	assignments, err := h.service.ListStudentAssignments(c.UserContext(), ref, c.Params("uid"))
	if err != nil {
		return respondError(c, h.logger, err, "list student assignments")
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}
