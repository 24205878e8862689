package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-tracker/internal/config"
	"project-tracker/internal/middleware"
	"project-tracker/internal/tracker"
	"project-tracker/pkg/logger"
)

// Daily reporting handlers, one per step of the flow.

// GetPending is step 1: past work still open.
func GetPending(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	pending, carried, err := tracker.NewDailyService(config.DB).PendingView(principal.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Pending items fetched successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"pendingTasks":     pending,
			"carriedOverItems": carried,
		},
	})
}

// SubmitProgress is step 2: today's progress, applied atomically.
func SubmitProgress(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	type ProgressRequest struct {
		Logs []tracker.ProgressEntry `json:"logs"`
	}
	var req ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in submit progress", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	for _, entry := range req.Logs {
		if err := config.Validate.Struct(entry); err != nil {
			logger.AuditLogger.Warn("Validation error in submit progress", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error",
				"errors":  err.Error(),
				"success": false,
				"status":  400,
			})
		}
	}

	if err := tracker.NewDailyService(config.DB).SubmitProgress(c.Context(), principal.UserID, req.Logs); err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Progress logged",
		zap.Int("userID", principal.UserID), zap.Int("entries", len(req.Logs)))
	return c.JSON(fiber.Map{
		"message": "Progress logged successfully",
		"success": true,
		"status":  200,
	})
}

// SubmitKudos is step 3: mutual help acknowledgments.
func SubmitKudos(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	type KudosRequest struct {
		Kudos []tracker.KudosEntry `json:"kudos"`
	}
	var req KudosRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in submit kudos", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	for _, entry := range req.Kudos {
		if err := config.Validate.Struct(entry); err != nil {
			logger.AuditLogger.Warn("Validation error in submit kudos", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error",
				"errors":  err.Error(),
				"success": false,
				"status":  400,
			})
		}
	}

	if err := tracker.NewDailyService(config.DB).SubmitKudos(principal.UserID, req.Kudos); err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Daily report completed", zap.Int("userID", principal.UserID))
	return c.JSON(fiber.Map{
		"message": "Daily report completed!",
		"success": true,
		"status":  200,
	})
}
