package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	IsGlobalAdmin bool      `json:"is_global_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID          int       `json:"id"`
	CompanyID   int       `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Task struct {
	ID             int            `json:"id"`
	ProjectID      int            `json:"project_id"`
	SubprojectID   sql.NullInt64  `json:"subproject_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	AssignedTo     int            `json:"assigned_to"`
	CreatedBy      int            `json:"created_by"`
	PlannedStart   time.Time      `json:"planned_start"`
	PlannedEnd     time.Time      `json:"planned_end"`
	RealStart      sql.NullTime   `json:"real_start"`
	RealEnd        sql.NullTime   `json:"real_end"`
	Progress       int            `json:"progress"`
	Status         TaskStatus     `json:"status"`
	IsExtra        bool           `json:"is_extra"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DailyLog is append-only: entries are never updated or deleted once
// written.
type DailyLog struct {
	ID            int            `json:"id"`
	UserID        int            `json:"user_id"`
	TaskID        int            `json:"task_id"`
	Type          LogType        `json:"type"`
	ProgressLog   sql.NullInt64  `json:"progress_log"`
	StatusColor   sql.NullString `json:"status_color"`
	Comment       string         `json:"comment"`
	RelatedUserID sql.NullInt64  `json:"related_user_id"`
	LogDate       time.Time      `json:"log_date"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	RelatedID int       `json:"related_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingItem is carried-over unresolved work from prior days. The core
// only reads these when assembling the previous-pending view.
type PendingItem struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Description string    `json:"description"`
	OriginDate  time.Time `json:"origin_date"`
	Resolved    bool      `json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

// Principal is the authenticated caller: resolved from the bearer token
// by the auth middleware and passed into every tracker operation.
type Principal struct {
	UserID    int
	CompanyID int
	Role      Role
}
