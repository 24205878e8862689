package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-tracker/internal/config"
	"project-tracker/internal/middleware"
	"project-tracker/internal/models"
	"project-tracker/pkg/logger"
)

// ListNotifications returns the caller's notifications, newest first.
// Records are read-only here: the tracker writes them, nothing updates
// them.
func ListNotifications(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	rows, err := config.DB.Query(`
        SELECT id, user_id, type, message, related_id, is_read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC`, principal.UserID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching notifications",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var relatedID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &relatedID, &n.IsRead, &n.CreatedAt); err != nil {
			logger.ErrorLogger.Error("Error scanning notification", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error fetching notifications",
				"success": false,
				"status":  500,
			})
		}
		n.RelatedID = int(relatedID.Int64)
		notifications = append(notifications, n)
	}

	return c.JSON(fiber.Map{
		"message": "Notifications fetched successfully",
		"success": true,
		"status":  200,
		"data":    notifications,
	})
}
