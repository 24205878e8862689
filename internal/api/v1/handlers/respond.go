package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-tracker/internal/tracker"
	"project-tracker/pkg/logger"
)

// statusOf maps a tracker error kind to its HTTP status.
func statusOf(err error) int {
	switch tracker.KindOf(err) {
	case tracker.KindValidation:
		return fiber.StatusBadRequest
	case tracker.KindForbidden:
		return fiber.StatusForbidden
	case tracker.KindNotFound:
		return fiber.StatusNotFound
	case tracker.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail logs the error and writes the standard failure envelope.
func fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status == fiber.StatusForbidden {
		logger.SecurityLogger.Warn("Request forbidden", zap.Error(err), zap.String("url", c.OriginalURL()))
	} else if status >= 500 {
		logger.ErrorLogger.Error("Request failed", zap.Error(err), zap.String("url", c.OriginalURL()))
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
		"success": false,
		"status":  status,
	})
}
