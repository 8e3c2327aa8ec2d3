package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// CatalogHandler exposes departments, courses and class offerings.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register wires catalog routes.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/departments", h.listDepartments)
	router.Post("/departments", h.createDepartment)
	router.Get("/departments/:subject/courses", h.listCourses)
	router.Get("/departments/:subject/professors", h.listProfessors)
	router.Get("/catalog", h.catalog)
	router.Post("/courses", h.createCourse)
	router.Get("/courses/:subject/:number/classes", h.listOfferings)
	router.Post("/classes", h.createClass)
	router.Get("/professors/:uid/classes", h.listProfessorClasses)
}

func (h *CatalogHandler) createDepartment(c *fiber.Ctx) error {
	var payload dto.CreateDepartmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	department, err := h.service.CreateDepartment(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create department")
	}

	return utils.SendCreated(c, "department created", department)
}

func (h *CatalogHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CreateCourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	course, err := h.service.CreateCourse(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create course")
	}

	return utils.SendCreated(c, "course created", course)
}

func (h *CatalogHandler) createClass(c *fiber.Ctx) error {
	var payload dto.CreateClassRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	class, err := h.service.CreateClass(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create class")
	}

	return utils.SendCreated(c, "class created", class)
}

func (h *CatalogHandler) listDepartments(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "list departments")
	}

	return utils.SendSuccess(c, "departments retrieved", departments)
}

func (h *CatalogHandler) catalog(c *fiber.Ctx) error {
	catalog, err := h.service.GetCatalog(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "load catalog")
	}

	return utils.SendSuccess(c, "catalog retrieved", catalog)
}

func (h *CatalogHandler) listCourses(c *fiber.Ctx) error {
	courses, err := h.service.ListCourses(c.UserContext(), c.Params("subject"))
	if err != nil {
		return respondError(c, h.logger, err, "list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CatalogHandler) listProfessors(c *fiber.Ctx) error {
	professors, err := h.service.ListProfessors(c.UserContext(), c.Params("subject"))
	if err != nil {
		return respondError(c, h.logger, err, "list professors")
	}

	return utils.SendSuccess(c, "professors retrieved", professors)
}

func (h *CatalogHandler) listOfferings(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil {
		return invalidPayload(c)
	}

	offerings, err := h.service.ListClassOfferings(c.UserContext(), c.Params("subject"), number)
	if err != nil {
		return respondError(c, h.logger, err, "list class offerings")
	}

	return utils.SendSuccess(c, "class offerings retrieved", offerings)
}

func (h *CatalogHandler) listProfessorClasses(c *fiber.Ctx) error {
	classes, err := h.service.ListProfessorClasses(c.UserContext(), c.Params("uid"))
	if err != nil {
		return respondError(c, h.logger, err, "list professor classes")
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}
