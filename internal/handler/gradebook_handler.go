package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// GradebookHandler exposes categories, assignments and submissions of one class offering.
// Routes are registered under a group that carries :subject/:number/:season/:year.
type GradebookHandler struct {
	service service.GradebookService
	logger  zerolog.Logger
}

// NewGradebookHandler constructs the handler.
func NewGradebookHandler(service service.GradebookService, logger zerolog.Logger) *GradebookHandler {
	return &GradebookHandler{
		service: service,
		logger:  logger.With().Str("component", "gradebook_handler").Logger(),
	}
}

// Register wires gradebook routes. writeLimiter guards the submission and scoring endpoints and may be nil.
func (h *GradebookHandler) Register(class fiber.Router, writeLimiter fiber.Handler) {
	if writeLimiter == nil {
		writeLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	class.Get("/categories", h.listCategories)
	class.Post("/categories", h.createCategory)
	class.Get("/assignments", h.listAssignments)
	class.Post("/assignments", h.createAssignment)
	class.Get("/students", h.roster)

	assignment := class.Group("/categories/:category/assignments/:assignment")
	assignment.Get("", h.assignmentContents)
	assignment.Get("/submissions", h.listSubmissions)
	assignment.Post("/submissions", writeLimiter, h.submit)
	assignment.Get("/submissions/:uid", h.submissionText)
	assignment.Put("/submissions/:uid/score", writeLimiter, h.grade)
}

func (h *GradebookHandler) createCategory(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}
	var payload dto.CreateCategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}
	payload.ClassRef = ref

	category, err := h.service.CreateAssignmentCategory(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create assignment category")
	}

	return utils.SendCreated(c, "assignment category created", category)
}

func (h *GradebookHandler) createAssignment(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}
	var payload dto.CreateAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}
	payload.ClassRef = ref

	created, err := h.service.CreateAssignment(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "create assignment")
	}
	if created.Recompute.Failed() {
		requestLogger(h.logger, c).Warn().
			Int("failures", len(created.Recompute.Failures)).
			Msg("assignment created with partial grade recompute")
	}

	return utils.SendCreated(c, "assignment created", created)
}

func (h *GradebookHandler) submit(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}
	var payload dto.SubmitAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}
	payload.ClassRef = ref
	payload.Category = c.Params("category")
	payload.Assignment = c.Params("assignment")

	submission, err := h.service.SubmitAssignment(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "submit assignment")
	}

	return utils.SendSuccess(c, "assignment submitted", submission)
}

func (h *GradebookHandler) grade(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}
	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}
	payload.ClassRef = ref
	payload.Category = c.Params("category")
	payload.Assignment = c.Params("assignment")
	payload.StudentID = c.Params("uid")

	graded, err := h.service.GradeSubmission(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "grade submission")
	}

	return utils.SendSuccess(c, "submission graded", graded)
}

func (h *GradebookHandler) listCategories(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}

	categories, err := h.service.ListCategories(c.UserContext(), ref)
	if err != nil {
		return respondError(c, h.logger, err, "list assignment categories")
	}

	return utils.SendSuccess(c, "assignment categories retrieved", categories)
}

func (h *GradebookHandler) listAssignments(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}

	assignments, err := h.service.ListAssignments(c.UserContext(), ref, c.Query("category"))
	if err != nil {
		return respondError(c, h.logger, err, "list assignments")
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *GradebookHandler) assignmentContents(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}

	contents, err := h.service.GetAssignmentContents(c.UserContext(), ref, c.Params("category"), c.Params("assignment"))
	if err != nil {
		return respondError(c, h.logger, err, "load assignment")
	}

	return utils.SendSuccess(c, "assignment retrieved", fiber.Map{"contents": contents})
}

func (h *GradebookHandler) listSubmissions(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}

	submissions, err := h.service.ListSubmissions(c.UserContext(), ref, c.Params("category"), c.Params("assignment"))
	if err != nil {
		return respondError(c, h.logger, err, "list submissions")
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *GradebookHandler) submissionText(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}

	text, err := h.service.GetSubmissionText(c.UserContext(), ref, c.Params("category"), c.Params("assignment"), c.Params("uid"))
	if err != nil {
		return respondError(c, h.logger, err, "load submission")
	}

	return utils.SendSuccess(c, "submission retrieved", fiber.Map{"contents": text})
}

func (h *GradebookHandler) roster(c *fiber.Ctx) error {
	ref, err := classRefFromParams(c)
	if err != nil {
		return invalidPayload(c)
	}

	roster, err := h.service.ListStudentsInClass(c.UserContext(), ref)
	if err != nil {
		return respondError(c, h.logger, err, "list students")
	}

	return utils.SendSuccess(c, "students retrieved", roster)
}
