package handlers

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-tracker/internal/config"
	"project-tracker/internal/middleware"
	"project-tracker/internal/models"
	"project-tracker/internal/tracker"
	"project-tracker/pkg/logger"
)

// Project handlers

func ListProjects(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	rows, err := config.DB.Query(
		`SELECT id, company_id, name, description, start_date, end_date, created_at
		 FROM projects WHERE company_id = $1`,
		principal.CompanyID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching projects", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching projects",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		var description sql.NullString
		var start, end sql.NullTime
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &description, &start, &end, &p.CreatedAt); err != nil {
			logger.ErrorLogger.Error("Error scanning projects", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning projects",
				"success": false,
				"status":  500,
			})
		}
		p.Description = description.String
		p.StartDate = start.Time
		p.EndDate = end.Time
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating projects", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating projects",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Projects fetched successfully",
		"success": true,
		"status":  200,
		"data":    projects,
	})
}

func CreateProject(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	if !principal.Role.CanReview() {
		return c.Status(403).JSON(fiber.Map{
			"message": "Only Managers and Team Leaders can create projects",
			"success": false,
			"status":  403,
		})
	}

	type ProjectRequest struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		StartDate   string `json:"startDate" validate:"required"`
		EndDate     string `json:"endDate" validate:"required"`
	}
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid start date",
			"success": false,
			"status":  400,
		})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid end date",
			"success": false,
			"status":  400,
		})
	}

	var projectID int
	err = config.DB.QueryRow(
		`INSERT INTO projects (company_id, name, description, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		principal.CompanyID, req.Name, req.Description, start, end,
	).Scan(&projectID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating project", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating project",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Project created", zap.Int("projectID", projectID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Project created successfully",
		"success": true,
		"status":  201,
		"id":      projectID,
	})
}

// GetGantt returns the planned-versus-real view of a project's tasks.
func GetGantt(c *fiber.Ctx) error {
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid project ID",
			"success": false,
			"status":  400,
		})
	}

	var name string
	err = config.DB.QueryRow("SELECT name FROM projects WHERE id = $1", projectID).Scan(&name)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Project not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching project", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching project",
			"success": false,
			"status":  500,
		})
	}

	tasks, err := tracker.NewTaskService(config.DB).ListByProject(projectID)
	if err != nil {
		return fail(c, err)
	}

	type ganttBar struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		Start      string `json:"start"`
		End        string `json:"end"`
		RealStart  string `json:"realStart,omitempty"`
		RealEnd    string `json:"realEnd,omitempty"`
		Progress   int    `json:"progress"`
		Assignee   string `json:"assignee"`
		Subproject string `json:"subproject,omitempty"`
	}

	bars := make([]ganttBar, 0, len(tasks))
	for _, t := range tasks {
		bar := ganttBar{
			ID:         t.ID,
			Name:       t.Title,
			Start:      t.PlannedStart.Format("2006-01-02"),
			End:        t.PlannedEnd.Format("2006-01-02"),
			Progress:   t.Progress,
			Assignee:   t.AssignedUserName,
			Subproject: t.SubprojectName.String,
		}
		if t.RealStart.Valid {
			bar.RealStart = t.RealStart.Time.Format("2006-01-02")
		}
		if t.RealEnd.Valid {
			bar.RealEnd = t.RealEnd.Time.Format("2006-01-02")
		}
		bars = append(bars, bar)
	}

	return c.JSON(fiber.Map{
		"message": "Gantt data fetched successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"project": fiber.Map{"id": projectID, "name": name},
			"tasks":   bars,
		},
	})
}
