package middleware

import (
	"errors"

	"go-loyalty/util/errs"
	"go-loyalty/util/logger"

	"github.com/gofiber/fiber/v3"
)

// ResponseError translates errs.AppError values returned by handlers into
// HTTP responses; anything else becomes an opaque 500.
func ResponseError() fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var appErr *errs.AppError
		if errors.As(err, &appErr) {
			return c.Status(errs.HTTPStatus(appErr)).JSON(fiber.Map{
				"type":    appErr.Type,
				"message": appErr.Message,
			})
		}

		logger.Log.Error("unhandled error: " + err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"type":    errs.ErrInternal,
			"message": "internal server error",
		})
	}
}
