package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/dto"
	"github.com/noah-isme/gema-lms-api/internal/middleware"
	"github.com/noah-isme/gema-lms-api/internal/service"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// ErrorDetails is the machine-readable part of an error response.
type ErrorDetails struct {
	Kind      service.ErrorKind       `json:"kind"`
	Fields    []string                `json:"fields,omitempty"`
	Conflicts []dto.ClassSlotResponse `json:"conflicts,omitempty"`
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindDuplicate, service.KindScheduleConflict:
		return fiber.StatusConflict
	case service.KindInvalidRange, service.KindInvalidInput:
		return fiber.StatusBadRequest
	case service.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps a service outcome onto the API envelope. Store failures are
// logged and their cause is not echoed to the client.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, action string) error {
	kind := service.KindOf(err)
	status := statusForKind(kind)
	details := ErrorDetails{Kind: kind}

	if status >= fiber.StatusInternalServerError {
		requestLogger(logger, c).Error().Err(err).Msg("failed to " + action)
		return utils.Fail(c, status, "failed to "+action, details)
	}

	message := err.Error()
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		message = "invalid payload"
		for _, fieldErr := range validationErrors {
			details.Fields = append(details.Fields, fieldErr.Field())
		}
	}

	var conflict *service.ScheduleConflictError
	if errors.As(err, &conflict) {
		for _, class := range conflict.Conflicts {
			details.Conflicts = append(details.Conflicts, dto.ClassSlotResponse{
				ID:       class.ID,
				Start:    class.StartTime.String(),
				End:      class.EndTime.String(),
				Location: class.Location,
			})
		}
	}

	return utils.Fail(c, status, message, details)
}

func invalidPayload(c *fiber.Ctx) error {
	return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", ErrorDetails{Kind: service.KindInvalidInput})
}

// classRefFromParams reads the :subject/:number/:season/:year route segments.
func classRefFromParams(c *fiber.Ctx) (dto.ClassRef, error) {
	number, err := c.ParamsInt("number")
	if err != nil {
		return dto.ClassRef{}, err
	}
	year, err := c.ParamsInt("year")
	if err != nil {
		return dto.ClassRef{}, err
	}

	return dto.ClassRef{
		Subject: c.Params("subject"),
		Number:  number,
		Season:  c.Params("season"),
		Year:    year,
		Start:   c.Query("start"),
	}, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
