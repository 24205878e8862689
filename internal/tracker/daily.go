package tracker

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"project-tracker/internal/models"
)

// DailyService implements the three-step daily reporting flow: the
// previous-pending view, the transactional progress batch and the kudos
// ledger.
type DailyService struct {
	db *sql.DB
}

func NewDailyService(db *sql.DB) *DailyService {
	return &DailyService{db: db}
}

// PendingTask is the slim task view shown in step 1.
type PendingTask struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Status     models.TaskStatus `json:"status"`
	PlannedEnd string            `json:"planned_end"`
}

// PendingView assembles step 1: the user's approved, not-yet-done tasks
// plus unresolved items carried over from previous days.
func (s *DailyService) PendingView(userID int) ([]PendingTask, []models.PendingItem, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.title, t.status, t.planned_end
		 FROM tasks t
		 WHERE t.assigned_to = $1
		 AND t.status != 'Done'
		 AND t.approval_status = 'Approved'`,
		userID,
	)
	if err != nil {
		return nil, nil, Internal("error fetching pending tasks", err)
	}
	defer rows.Close()

	pending := []PendingTask{}
	for rows.Next() {
		var t PendingTask
		var plannedEnd sql.NullTime
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &plannedEnd); err != nil {
			return nil, nil, Internal("error scanning pending tasks", err)
		}
		if plannedEnd.Valid {
			t.PlannedEnd = plannedEnd.Time.Format("2006-01-02")
		}
		pending = append(pending, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, Internal("error iterating pending tasks", err)
	}

	itemRows, err := s.db.Query(
		`SELECT id, user_id, description, origin_date, resolved, created_at
		 FROM pending_items WHERE user_id = $1 AND resolved = FALSE`,
		userID,
	)
	if err != nil {
		return nil, nil, Internal("error fetching carried-over items", err)
	}
	defer itemRows.Close()

	carried := []models.PendingItem{}
	for itemRows.Next() {
		var item models.PendingItem
		err := itemRows.Scan(&item.ID, &item.UserID, &item.Description,
			&item.OriginDate, &item.Resolved, &item.CreatedAt)
		if err != nil {
			return nil, nil, Internal("error scanning carried-over items", err)
		}
		carried = append(carried, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, nil, Internal("error iterating carried-over items", err)
	}
	return pending, carried, nil
}

// TaskLogs returns the full ledger for one task, newest first. Progress
// and kudos entries come back together; callers filter by type if they
// only want one.
func (s *DailyService) TaskLogs(taskID int) ([]models.DailyLog, error) {
	var exists int
	if err := s.db.QueryRow("SELECT 1 FROM tasks WHERE id = $1", taskID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, NotFound(fmt.Sprintf("task %d not found", taskID))
		}
		return nil, Internal("error checking task", err)
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, task_id, type, progress_log, status_color,
		        comment, related_user_id, log_date, created_at
		 FROM daily_logs
		 WHERE task_id = $1
		 ORDER BY created_at DESC, id DESC`,
		taskID,
	)
	if err != nil {
		return nil, Internal("error fetching task logs", err)
	}
	defer rows.Close()

	logs := []models.DailyLog{}
	for rows.Next() {
		var entry models.DailyLog
		var comment sql.NullString
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.TaskID, &entry.Type,
			&entry.ProgressLog, &entry.StatusColor, &comment,
			&entry.RelatedUserID, &entry.LogDate, &entry.CreatedAt)
		if err != nil {
			return nil, Internal("error scanning task logs", err)
		}
		entry.Comment = comment.String
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, Internal("error iterating task logs", err)
	}
	return logs, nil
}

// ProgressEntry is one task's progress report for today.
type ProgressEntry struct {
	TaskID       int                `json:"taskId" validate:"required"`
	Progress     int                `json:"progress" validate:"min=0,max=100"`
	StatusColor  models.StatusColor `json:"statusColor"`
	Comment      string             `json:"comment"`
	StartedToday bool               `json:"startedToday"`
}

// SubmitProgress applies step 2 as one transaction over the whole
// batch. Per entry: append a PROGRESS log, set real_start the first
// time the task is worked on, overwrite progress last-write-wins, and
// derive Done plus real_end when progress hits 100. Any failure rolls
// back every entry, including ones already applied.
func (s *DailyService) SubmitProgress(ctx context.Context, userID int, entries []ProgressEntry) error {
	if len(entries) == 0 {
		return Validation("no logs provided")
	}
	for _, entry := range entries {
		if entry.Progress < 0 || entry.Progress > 100 {
			return Validation(fmt.Sprintf("progress for task %d must be between 0 and 100", entry.TaskID))
		}
		if entry.StatusColor != "" && !entry.StatusColor.Valid() {
			return Validation(fmt.Sprintf("invalid status color for task %d", entry.TaskID))
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Internal("error starting transaction", err)
	}
	// Rollback is a no-op after a successful Commit; the deferred call
	// guarantees the connection goes back to the pool on every path.
	defer tx.Rollback()

	for _, entry := range entries {
		var color sql.NullString
		if entry.StatusColor != "" {
			color = sql.NullString{String: string(entry.StatusColor), Valid: true}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO daily_logs
			 (user_id, task_id, type, progress_log, status_color, comment, log_date)
			 VALUES ($1, $2, $3, $4, $5, $6, CURRENT_DATE)`,
			userID, entry.TaskID, string(models.LogProgress), entry.Progress, color, entry.Comment,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return NotFound(fmt.Sprintf("task %d not found", entry.TaskID))
			}
			return Internal("error inserting daily log", err)
		}

		if entry.StartedToday {
			_, err := tx.ExecContext(ctx,
				"UPDATE tasks SET real_start = NOW() WHERE id = $1 AND real_start IS NULL",
				entry.TaskID,
			)
			if err != nil {
				return Internal("error setting real start", err)
			}
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE tasks SET progress = $1 WHERE id = $2",
			entry.Progress, entry.TaskID,
		)
		if err != nil {
			return Internal("error updating progress", err)
		}

		if entry.Progress == 100 {
			_, err := tx.ExecContext(ctx,
				"UPDATE tasks SET status = 'Done', real_end = NOW() WHERE id = $1",
				entry.TaskID,
			)
			if err != nil {
				return Internal("error completing task", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Internal("error committing daily report", err)
	}
	return nil
}

// KudosEntry credits a helper for assistance on a task.
type KudosEntry struct {
	HelperID int    `json:"helperId" validate:"required"`
	TaskID   int    `json:"taskId" validate:"required"`
	Reason   string `json:"reason"`
}

// SubmitKudos writes step 3: one HELP_GIVEN plus one HELP_RECEIVED
// entry per item, reciprocal related_user_id, same task, dated today.
// Self-kudos are skipped without error. The writes are independent and
// best-effort; a failure stops the batch but earlier pairs stay. The
// helper-side entry goes first so a torn pair is detectable.
func (s *DailyService) SubmitKudos(recipientID int, entries []KudosEntry) error {
	for _, kudo := range entries {
		if kudo.HelperID == recipientID {
			continue
		}

		_, err := s.db.Exec(
			`INSERT INTO daily_logs
			 (user_id, task_id, type, comment, related_user_id, log_date)
			 VALUES ($1, $2, $3, $4, $5, CURRENT_DATE)`,
			kudo.HelperID, kudo.TaskID, string(models.LogHelpGiven),
			fmt.Sprintf("Helped user %d: %s", recipientID, kudo.Reason), recipientID,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return NotFound(fmt.Sprintf("task %d or helper %d not found", kudo.TaskID, kudo.HelperID))
			}
			return Internal("error recording help given", err)
		}

		_, err = s.db.Exec(
			`INSERT INTO daily_logs
			 (user_id, task_id, type, comment, related_user_id, log_date)
			 VALUES ($1, $2, $3, $4, $5, CURRENT_DATE)`,
			recipientID, kudo.TaskID, string(models.LogHelpReceived),
			fmt.Sprintf("Received help from user %d: %s", kudo.HelperID, kudo.Reason), kudo.HelperID,
		)
		if err != nil {
			return Internal("error recording help received", err)
		}
	}
	return nil
}
