package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-tracker/internal/config"
	"project-tracker/internal/middleware"
	"project-tracker/internal/tracker"
	"project-tracker/pkg/logger"
)

// Task handlers

func CreateTask(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	type TaskRequest struct {
		ProjectID    int    `json:"projectId" validate:"required"`
		SubprojectID *int   `json:"subprojectId"`
		Title        string `json:"title" validate:"required"`
		Description  string `json:"description"`
		AssignedTo   int    `json:"assignedTo" validate:"required"`
		PlannedStart string `json:"plannedStart" validate:"required"`
		PlannedEnd   string `json:"plannedEnd" validate:"required"`
		IsExtra      bool   `json:"isExtra"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	plannedStart, err := time.Parse("2006-01-02", req.PlannedStart)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid planned start date",
			"success": false,
			"status":  400,
		})
	}
	plannedEnd, err := time.Parse("2006-01-02", req.PlannedEnd)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid planned end date",
			"success": false,
			"status":  400,
		})
	}

	taskID, approval, err := tracker.NewTaskService(config.DB).Create(tracker.CreateTaskInput{
		ProjectID:    req.ProjectID,
		SubprojectID: req.SubprojectID,
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		PlannedStart: plannedStart,
		PlannedEnd:   plannedEnd,
		IsExtra:      req.IsExtra,
	}, principal)
	if err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Task created successfully",
		zap.Int("task_id", taskID), zap.String("approval_status", string(approval)))
	return c.Status(201).JSON(fiber.Map{
		"message":        "Task created successfully",
		"success":        true,
		"status":         201,
		"taskId":         taskID,
		"approvalStatus": approval,
	})
}

func ListProjectTasks(c *fiber.Ctx) error {
	projectID, err := c.ParamsInt("projectId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid project ID",
			"success": false,
			"status":  400,
		})
	}

	tasks, err := tracker.NewTaskService(config.DB).ListByProject(projectID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// GetTaskLogs returns the task's daily-log ledger, newest first.
func GetTaskLogs(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	logs, err := tracker.NewDailyService(config.DB).TaskLogs(taskID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Task logs fetched successfully",
		"success": true,
		"status":  200,
		"data":    logs,
	})
}

func UpdateTask(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// The body is a free-form field map; the tracker filters it against
	// the allow-list and enforces the Collaborator lock rules.
	var raw map[string]interface{}
	if err := c.BodyParser(&raw); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := tracker.NewTaskService(config.DB).Update(taskID, raw, principal); err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Task updated", zap.Int("taskID", taskID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
	})
}

func ApproveTask(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	type ApproveRequest struct {
		Approved bool `json:"approved"`
	}
	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	status, err := tracker.NewTaskService(config.DB).Approve(taskID, req.Approved, principal)
	if err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Task approval resolved",
		zap.Int("taskID", taskID), zap.String("status", string(status)))
	return c.JSON(fiber.Map{
		"message": "Task " + string(status),
		"success": true,
		"status":  200,
	})
}
