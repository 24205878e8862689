package tracker

import (
	"database/sql"
	"math"
	"time"
)

// MetricsService computes derived statistics from the store. It is
// strictly read-only; nothing here writes.
type MetricsService struct {
	db *sql.DB
}

func NewMetricsService(db *sql.DB) *MetricsService {
	return &MetricsService{db: db}
}

type UserMetrics struct {
	TasksCompleted       int `json:"tasksCompleted"`
	OnTimeCompletionRate int `json:"onTimeCompletionRate"`
	ExtraTasks           int `json:"extraTasks"`
}

type CollaborationMetrics struct {
	HelpGiven          int `json:"helpGiven"`
	HelpReceived       int `json:"helpReceived"`
	CollaborationScore int `json:"collaborationScore"`
}

type ProjectHealth struct {
	TotalTasks      int `json:"totalTasks"`
	CompletedTasks  int `json:"completedTasks"`
	BlockedTasks    int `json:"blockedTasks"`
	OverdueTasks    int `json:"overdueTasks"`
	AverageProgress int `json:"averageProgress"`
	HealthScore     int `json:"healthScore"`
}

type TopPerformer struct {
	Name           string `json:"name"`
	CompletedTasks int    `json:"completed_tasks"`
}

// onTimeRate is the percentage of completed tasks that finished at or
// before their planned end, rounded to the nearest integer. Zero
// completions means zero, not a division by zero.
func onTimeRate(onTime, completed int) int {
	if completed == 0 {
		return 0
	}
	return int(math.Round(float64(onTime) / float64(completed) * 100))
}

// healthScore starts a project at 100 and deducts up to 50 points each
// for the blocked and overdue ratios. Both ratios are at most 1 so the
// result always lands in [0,100]; the clamp guards rounding.
func healthScore(total, blocked, overdue int) int {
	if total == 0 {
		return 100
	}
	blockedPenalty := float64(blocked) / float64(total) * 50
	overduePenalty := float64(overdue) / float64(total) * 50
	score := math.Round(100 - blockedPenalty - overduePenalty)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// UserMetrics aggregates individual productivity over [start, end].
func (s *MetricsService) UserMetrics(userID int, start, end time.Time) (UserMetrics, error) {
	var m UserMetrics

	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks
		 WHERE assigned_to = $1 AND status = 'Done'
		 AND real_end BETWEEN $2 AND $3`,
		userID, start, end,
	).Scan(&m.TasksCompleted)
	if err != nil {
		return m, Internal("error counting completed tasks", err)
	}

	var onTime int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks
		 WHERE assigned_to = $1 AND status = 'Done'
		 AND real_end <= planned_end
		 AND real_end BETWEEN $2 AND $3`,
		userID, start, end,
	).Scan(&onTime)
	if err != nil {
		return m, Internal("error counting on-time tasks", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks
		 WHERE assigned_to = $1 AND is_extra = TRUE
		 AND created_at BETWEEN $2 AND $3`,
		userID, start, end,
	).Scan(&m.ExtraTasks)
	if err != nil {
		return m, Internal("error counting extra tasks", err)
	}

	m.OnTimeCompletionRate = onTimeRate(onTime, m.TasksCompleted)
	return m, nil
}

// CollaborationMetrics counts kudos ledger entries over [start, end].
// The score is a fixed five points per help given.
func (s *MetricsService) CollaborationMetrics(userID int, start, end time.Time) (CollaborationMetrics, error) {
	var m CollaborationMetrics

	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM daily_logs
		 WHERE user_id = $1 AND type = 'HELP_GIVEN'
		 AND log_date BETWEEN $2 AND $3`,
		userID, start, end,
	).Scan(&m.HelpGiven)
	if err != nil {
		return m, Internal("error counting help given", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM daily_logs
		 WHERE user_id = $1 AND type = 'HELP_RECEIVED'
		 AND log_date BETWEEN $2 AND $3`,
		userID, start, end,
	).Scan(&m.HelpReceived)
	if err != nil {
		return m, Internal("error counting help received", err)
	}

	m.CollaborationScore = m.HelpGiven * 5
	return m, nil
}

// ProjectHealth aggregates task counts and the derived health score for
// one project. A project with no tasks reports a score of 100 and zero
// average progress.
func (s *MetricsService) ProjectHealth(projectID int) (ProjectHealth, error) {
	var h ProjectHealth
	var avgProgress sql.NullFloat64

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'Done' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'Blocked' THEN 1 ELSE 0 END), 0),
		        AVG(progress)
		 FROM tasks WHERE project_id = $1`,
		projectID,
	).Scan(&h.TotalTasks, &h.CompletedTasks, &h.BlockedTasks, &avgProgress)
	if err != nil {
		return h, Internal("error aggregating project tasks", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks
		 WHERE project_id = $1
		 AND status != 'Done'
		 AND planned_end < CURRENT_DATE`,
		projectID,
	).Scan(&h.OverdueTasks)
	if err != nil {
		return h, Internal("error counting overdue tasks", err)
	}

	if avgProgress.Valid {
		h.AverageProgress = int(math.Round(avgProgress.Float64))
	}
	h.HealthScore = healthScore(h.TotalTasks, h.BlockedTasks, h.OverdueTasks)
	return h, nil
}

// TopPerformers is the project leaderboard: users ranked by completed
// tasks, at most five rows.
func (s *MetricsService) TopPerformers(projectID int) ([]TopPerformer, error) {
	rows, err := s.db.Query(
		`SELECT u.name, COUNT(t.id) AS completed_tasks
		 FROM tasks t
		 JOIN users u ON t.assigned_to = u.id
		 WHERE t.project_id = $1 AND t.status = 'Done'
		 GROUP BY u.id, u.name
		 ORDER BY completed_tasks DESC
		 LIMIT 5`,
		projectID,
	)
	if err != nil {
		return nil, Internal("error fetching leaderboard", err)
	}
	defer rows.Close()

	performers := []TopPerformer{}
	for rows.Next() {
		var p TopPerformer
		if err := rows.Scan(&p.Name, &p.CompletedTasks); err != nil {
			return nil, Internal("error scanning leaderboard", err)
		}
		performers = append(performers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, Internal("error iterating leaderboard", err)
	}
	return performers, nil
}
