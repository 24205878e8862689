package v1

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/internal/api/v1/handlers"
	"project-tracker/internal/middleware"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/register", handlers.Register)
	api.Post("/auth/login", handlers.Login)

	// Companies
	companyRoutes := api.Group("/companies", middleware.UseToken)
	companyRoutes.Post("/", handlers.CreateCompany)
	companyRoutes.Get("/:id", handlers.GetCompany)
	companyRoutes.Post("/:id/members", handlers.AddCompanyMember)

	// Projects
	projectRoutes := api.Group("/projects", middleware.UseToken)
	projectRoutes.Get("/", handlers.ListProjects)
	projectRoutes.Post("/", handlers.CreateProject)
	projectRoutes.Get("/:id/gantt", handlers.GetGantt)

	// Tasks
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Get("/project/:projectId", handlers.ListProjectTasks)
	taskRoutes.Get("/:id/logs", handlers.GetTaskLogs)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Patch("/:id", handlers.UpdateTask)
	taskRoutes.Post("/:id/approve", handlers.ApproveTask)

	// Daily reporting flow
	dailyRoutes := api.Group("/daily", middleware.UseToken)
	dailyRoutes.Get("/step1/pending", handlers.GetPending)
	dailyRoutes.Post("/step2/progress", handlers.SubmitProgress)
	dailyRoutes.Post("/step3/kudos", handlers.SubmitKudos)

	// Notifications
	notificationRoutes := api.Group("/notifications", middleware.UseToken)
	notificationRoutes.Get("/", handlers.ListNotifications)

	// Reports
	reportRoutes := api.Group("/reports", middleware.UseToken)
	reportRoutes.Get("/dashboard", handlers.GetDashboard)
	reportRoutes.Get("/project/:id", handlers.GetProjectReport)
}
