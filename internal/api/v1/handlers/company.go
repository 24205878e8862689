package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"project-tracker/internal/config"
	"project-tracker/internal/middleware"
	"project-tracker/internal/models"
	"project-tracker/pkg/logger"
)

// Company handlers

func CreateCompany(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	type CompanyRequest struct {
		Name string `json:"name" validate:"required"`
	}
	var req CompanyRequest
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

	var companyID int
	err := config.DB.QueryRow(
		"INSERT INTO companies (name) VALUES ($1) RETURNING id", req.Name,
	).Scan(&companyID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating company", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating company",
			"success": false,
			"status":  500,
		})
	}

	// The creator becomes the company's Manager
	_, err = config.DB.Exec(
		"INSERT INTO user_company_roles (user_id, company_id, role) VALUES ($1, $2, $3)",
		principal.UserID, companyID, string(models.RoleManager),
	)
	if err != nil {
		logger.ErrorLogger.Error("Error assigning manager role", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error assigning manager role",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Company created", zap.Int("companyID", companyID), zap.Int("userID", principal.UserID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Company created successfully",
		"success": true,
		"status":  201,
		"id":      companyID,
	})
}

// GetCompany returns the company record plus its member roster. Only
// members can see it.
func GetCompany(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	companyID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid company ID",
			"success": false,
			"status":  400,
		})
	}

	var callerRole string
	err = config.DB.QueryRow(
		"SELECT role FROM user_company_roles WHERE user_id = $1 AND company_id = $2",
		principal.UserID, companyID,
	).Scan(&callerRole)
	if err != nil {
		logger.SecurityLogger.Warn("Company view without membership",
			zap.Int("userID", principal.UserID), zap.Int("companyID", companyID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Not a member of this company",
			"success": false,
			"status":  403,
		})
	}

	var company models.Company
	err = config.DB.QueryRow(
		"SELECT id, name, created_at FROM companies WHERE id = $1", companyID,
	).Scan(&company.ID, &company.Name, &company.CreatedAt)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Company not found",
			"success": false,
			"status":  404,
		})
	}

	rows, err := config.DB.Query(`
        SELECT u.id, u.name, u.email, u.is_global_admin, u.created_at, ucr.role
        FROM users u
        JOIN user_company_roles ucr ON ucr.user_id = u.id
        WHERE ucr.company_id = $1
        ORDER BY u.name`, companyID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching members", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching members",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	type Member struct {
		models.User
		Role models.Role `json:"role"`
	}
	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.IsGlobalAdmin, &m.CreatedAt, &m.Role); err != nil {
			logger.ErrorLogger.Error("Error scanning member", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error fetching members",
				"success": false,
				"status":  500,
			})
		}
		members = append(members, m)
	}

	return c.JSON(fiber.Map{
		"message": "Company fetched successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"company":  company,
			"members":  members,
			"yourRole": callerRole,
		},
	})
}

func AddCompanyMember(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	companyID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid company ID",
			"success": false,
			"status":  400,
		})
	}

	if !principal.Role.CanReview() {
		logger.SecurityLogger.Warn("Member add without permission",
			zap.Int("userID", principal.UserID), zap.Int("companyID", companyID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Only Managers and Team Leaders can add members",
			"success": false,
			"status":  403,
		})
	}

	type MemberRequest struct {
		UserID int    `json:"userId" validate:"required"`
		Role   string `json:"role" validate:"required"`
	}
	var req MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil || !models.Role(req.Role).Valid() {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid role",
			"success": false,
			"status":  400,
		})
	}

	var exists int
	if err := config.DB.QueryRow("SELECT 1 FROM users WHERE id = $1", req.UserID).Scan(&exists); err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	_, err = config.DB.Exec(
		"INSERT INTO user_company_roles (user_id, company_id, role) VALUES ($1, $2, $3)",
		req.UserID, companyID, req.Role,
	)
	if err != nil {
		// unique (user_id, company_id) violation means duplicate membership
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return c.Status(409).JSON(fiber.Map{
				"message": "User already a member of this company",
				"success": false,
				"status":  409,
			})
		}
		logger.ErrorLogger.Error("Error adding member", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error adding member",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Member added",
		zap.Int("companyID", companyID), zap.Int("userID", req.UserID), zap.String("role", req.Role))
	return c.Status(201).JSON(fiber.Map{
		"message": "Member added successfully",
		"success": true,
		"status":  201,
	})
}
