package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"topic-tasks/pkg/logger"
	"topic-tasks/pkg/utils"
)

// ErrorHandler renders anything a handler did not answer itself, including
// fiber's own 404/405, in the {error} envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Unhandled error", "path", c.Path(), "error", err)
		}

		return utils.ErrorResponse(c, code, message)
	}
}
