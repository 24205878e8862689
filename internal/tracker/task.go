package tracker

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"project-tracker/internal/models"
)

// TaskService owns task creation, the permission-gated field patch and
// the extra-task approval workflow. The pool is passed in explicitly so
// tests can point it at their own database.
type TaskService struct {
	db *sql.DB
}

func NewTaskService(db *sql.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskInput struct {
	ProjectID    int
	SubprojectID *int
	Title        string
	Description  string
	AssignedTo   int
	PlannedStart time.Time
	PlannedEnd   time.Time
	IsExtra      bool
}

// Create inserts a new task under the caller's role policy:
// Collaborators may only create extra tasks, and those start Pending;
// Managers and Team Leaders create anything, always Approved.
// A Pending task fans out one notification per reviewer of the company.
func (s *TaskService) Create(in CreateTaskInput, p models.Principal) (int, models.ApprovalStatus, error) {
	if in.PlannedEnd.Before(in.PlannedStart) {
		return 0, "", Validation("planned_end must not be before planned_start")
	}

	approval := models.ApprovalApproved
	switch p.Role {
	case models.RoleCollaborator:
		if !in.IsExtra {
			return 0, "", Forbidden("Collaborators can only create extra tasks")
		}
		approval = models.ApprovalPending
	case models.RoleManager, models.RoleTeamLeader:
		// any task, auto-approved even when extra
	case models.RoleSpectator:
		return 0, "", Forbidden("Spectators cannot create tasks")
	default:
		return 0, "", Forbidden("unknown role")
	}

	var subproject sql.NullInt64
	if in.SubprojectID != nil {
		subproject = sql.NullInt64{Int64: int64(*in.SubprojectID), Valid: true}
	}

	var taskID int
	err := s.db.QueryRow(
		`INSERT INTO tasks
		 (project_id, subproject_id, title, description, assigned_to, created_by,
		  planned_start, planned_end, is_extra, approval_status, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		in.ProjectID, subproject, in.Title, in.Description, in.AssignedTo, p.UserID,
		in.PlannedStart, in.PlannedEnd, in.IsExtra, string(approval), string(models.StatusTodo),
	).Scan(&taskID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return 0, "", NotFound("project, subproject or assignee not found")
		}
		return 0, "", Internal("error creating task", err)
	}

	if approval == models.ApprovalPending {
		if err := s.notifyReviewers(p.CompanyID, taskID, in.Title); err != nil {
			// Fan-out is not transactional with the insert; the task
			// already exists at this point.
			return 0, "", err
		}
	}
	return taskID, approval, nil
}

func (s *TaskService) notifyReviewers(companyID, taskID int, title string) error {
	rows, err := s.db.Query(
		`SELECT user_id FROM user_company_roles
		 WHERE role IN ('Manager', 'Team Leader') AND company_id = $1`,
		companyID,
	)
	if err != nil {
		return Internal("error finding reviewers", err)
	}
	defer rows.Close()

	var reviewers []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return Internal("error scanning reviewers", err)
		}
		reviewers = append(reviewers, id)
	}
	if err := rows.Err(); err != nil {
		return Internal("error iterating reviewers", err)
	}

	message := fmt.Sprintf("New extra task approval request: %s", title)
	for _, reviewer := range reviewers {
		_, err := s.db.Exec(
			`INSERT INTO notifications (user_id, type, message, related_id, is_read)
			 VALUES ($1, $2, $3, $4, FALSE)`,
			reviewer, models.NotifExtraTaskApproval, message, taskID,
		)
		if err != nil {
			return Internal("error creating notification", err)
		}
	}
	return nil
}

// Update applies a partial field patch to a task. The patch is a raw,
// permission-gated write: no state derivation happens here, that is the
// daily-report path's job. Collaborators are rejected outright when the
// request touches any locked field, before anything is written.
func (s *TaskService) Update(taskID int, raw map[string]interface{}, p models.Principal) error {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM tasks WHERE id = $1", taskID).Scan(&exists)
	if err == sql.ErrNoRows {
		return NotFound("task not found")
	}
	if err != nil {
		return Internal("error fetching task", err)
	}

	if p.Role == models.RoleCollaborator {
		if hits := LockedKeys(raw); len(hits) > 0 {
			return Forbidden("Collaborators cannot edit locked fields (dates, title, assignment)")
		}
	}

	patch, err := ParseTaskPatch(raw)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return Validation("no valid fields to update")
	}

	clauses, args := patch.Assignments()
	args = append(args, taskID)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d",
		strings.Join(clauses, ", "), len(args))
	if _, err := s.db.Exec(query, args...); err != nil {
		return Internal("error updating task", err)
	}
	return nil
}

// Approve resolves a pending extra task. Both outcomes are terminal.
// The update predicate mirrors the storage guard (extra and currently
// Pending); when it matches nothing the caller learns why: a missing
// task is NotFound, anything else is Conflict.
func (s *TaskService) Approve(taskID int, approved bool, p models.Principal) (models.ApprovalStatus, error) {
	if !p.Role.CanReview() {
		return "", Forbidden("only Managers and Team Leaders can approve tasks")
	}

	status := models.ApprovalApproved
	notifType := models.NotifTaskApproved
	if !approved {
		status = models.ApprovalRejected
		notifType = models.NotifTaskRejected
	}

	res, err := s.db.Exec(
		`UPDATE tasks SET approval_status = $1
		 WHERE id = $2 AND is_extra = TRUE AND approval_status = 'Pending'`,
		string(status), taskID,
	)
	if err != nil {
		return "", Internal("error updating approval status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", Internal("error checking approval result", err)
	}
	if affected == 0 {
		var exists int
		err := s.db.QueryRow("SELECT 1 FROM tasks WHERE id = $1", taskID).Scan(&exists)
		if err == sql.ErrNoRows {
			return "", NotFound("task not found")
		}
		if err != nil {
			return "", Internal("error fetching task", err)
		}
		return "", Conflict("task is not a pending extra task")
	}

	// Notify the creator of the outcome
	var createdBy int
	var title string
	err = s.db.QueryRow("SELECT created_by, title FROM tasks WHERE id = $1", taskID).
		Scan(&createdBy, &title)
	if err != nil {
		return "", Internal("error fetching task creator", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO notifications (user_id, type, message, related_id, is_read)
		 VALUES ($1, $2, $3, $4, FALSE)`,
		createdBy, notifType, fmt.Sprintf("Your extra task %q was %s", title, strings.ToLower(string(status))), taskID,
	)
	if err != nil {
		return "", Internal("error creating notification", err)
	}
	return status, nil
}

// TaskRow is a task joined with its assignee and subproject names, as
// listed on the project Gantt view.
type TaskRow struct {
	models.Task
	AssignedUserName string         `json:"assigned_user_name"`
	SubprojectName   sql.NullString `json:"subproject_name"`
}

// ListByProject returns the project's tasks ordered by planned start.
func (s *TaskService) ListByProject(projectID int) ([]TaskRow, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.project_id, t.subproject_id, t.title, t.description,
		        t.assigned_to, t.created_by, t.planned_start, t.planned_end,
		        t.real_start, t.real_end, t.progress, t.status, t.is_extra,
		        t.approval_status, t.created_at, u.name, s.name
		 FROM tasks t
		 LEFT JOIN users u ON t.assigned_to = u.id
		 LEFT JOIN subprojects s ON t.subproject_id = s.id
		 WHERE t.project_id = $1
		 ORDER BY t.planned_start ASC`,
		projectID,
	)
	if err != nil {
		return nil, Internal("error fetching tasks", err)
	}
	defer rows.Close()

	tasks := []TaskRow{}
	for rows.Next() {
		var t TaskRow
		var assignee sql.NullString
		err := rows.Scan(&t.ID, &t.ProjectID, &t.SubprojectID, &t.Title, &t.Description,
			&t.AssignedTo, &t.CreatedBy, &t.PlannedStart, &t.PlannedEnd,
			&t.RealStart, &t.RealEnd, &t.Progress, &t.Status, &t.IsExtra,
			&t.ApprovalStatus, &t.CreatedAt, &assignee, &t.SubprojectName)
		if err != nil {
			return nil, Internal("error scanning tasks", err)
		}
		t.AssignedUserName = assignee.String
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, Internal("error iterating tasks", err)
	}
	return tasks, nil
}
