package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/validate"
)

const friendly = "Something went wrong. Please try again."

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}

// fail maps repository and validation errors to a JSON response. Internal
// errors are logged and answered with a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		applog.Warn(c, action+".invalid", err, map[string]any{"field": ve.Field})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, repos.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	applog.Error(c, action+".fail", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": friendly})
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Warn(c, "validation.fail", nil, map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// pathID validates the :id route parameter.
func pathID(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("id"))
}

// ErrorHandler is the app-wide fiber error handler. Client errors keep their
// message; everything else gets the generic one.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": friendly})
}
