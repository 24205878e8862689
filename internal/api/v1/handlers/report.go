package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-tracker/internal/config"
	"project-tracker/internal/middleware"
	"project-tracker/internal/tracker"
	"project-tracker/pkg/logger"
)

// Report handlers

// GetDashboard aggregates the caller's productivity and collaboration
// metrics over a fixed 30-day window.
func GetDashboard(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	metrics := tracker.NewMetricsService(config.DB)
	productivity, err := metrics.UserMetrics(principal.UserID, start, end)
	if err != nil {
		return fail(c, err)
	}
	collaboration, err := metrics.CollaborationMetrics(principal.UserID, start, end)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Dashboard report generated",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"period":        "Last 30 Days",
			"productivity":  productivity,
			"collaboration": collaboration,
		},
	})
}

type projectReport struct {
	ProjectHealth tracker.ProjectHealth  `json:"projectHealth"`
	TopPerformers []tracker.TopPerformer `json:"topPerformers"`
}

// GetProjectReport builds the project health report. The report is the
// expensive multi-query read, so it is cached in Redis for five
// minutes; a stale score is acceptable at that horizon.
func GetProjectReport(c *fiber.Ctx) error {
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid project ID",
			"success": false,
			"status":  400,
		})
	}

	cacheKey := fmt.Sprintf("report:project:%d", projectID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var report projectReport
		if err := json.Unmarshal([]byte(cached), &report); err == nil {
			logger.AuditLogger.Info("Project report served from cache", zap.Int("projectID", projectID))
			return c.JSON(fiber.Map{
				"message": "Project report generated (from cache)",
				"success": true,
				"status":  200,
				"data":    report,
			})
		}
	}

	metrics := tracker.NewMetricsService(config.DB)
	health, err := metrics.ProjectHealth(projectID)
	if err != nil {
		return fail(c, err)
	}
	performers, err := metrics.TopPerformers(projectID)
	if err != nil {
		return fail(c, err)
	}

	report := projectReport{ProjectHealth: health, TopPerformers: performers}
	if reportJSON, err := json.Marshal(report); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, reportJSON, 5*time.Minute)
	}

	logger.AuditLogger.Info("Project report generated", zap.Int("projectID", projectID))
	return c.JSON(fiber.Map{
		"message": "Project report generated",
		"success": true,
		"status":  200,
		"data":    report,
	})
}
