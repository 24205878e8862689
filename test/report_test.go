package test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/config"
	"project-tracker/internal/models"
)

// seedTask inserts a task with explicit status and schedule outcome.
func seedTask(t *testing.T, projectID, userID int, status string, plannedEndOffset, realEndOffset *int) int {
	t.Helper()
	var id int
	query := `INSERT INTO tasks (project_id, title, assigned_to, created_by,
	                             planned_start, planned_end, status, progress, real_end)
	          VALUES ($1, $2, $3, $3, CURRENT_DATE - 10, CURRENT_DATE + $4::int, $5, $6,
	                  CASE WHEN $7::int IS NULL THEN NULL ELSE NOW() + ($7::int * INTERVAL '1 day') END)
	          RETURNING id`
	progress := 0
	if status == "Done" {
		progress = 100
	}
	plannedEnd := 7
	if plannedEndOffset != nil {
		plannedEnd = *plannedEndOffset
	}
	err := config.DB.QueryRow(query,
		projectID, fmt.Sprintf("seed_%d", userID), userID, plannedEnd, status, progress, realEndOffset,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Error seeding task: %v", err)
	}
	return id
}

func intp(n int) *int { return &n }

func TestDashboardReport(t *testing.T) {
	app := CreateTestApp()
	token, userID, companyID := memberWithRole(t, app, models.RoleCollaborator)
	projectID := createProject(t, companyID)

	// Two completions inside the window: one on time (real_end today,
	// planned_end in a week), one late (real_end today, planned_end
	// five days ago).
	seedTask(t, projectID, userID, "Done", intp(7), intp(0))
	seedTask(t, projectID, userID, "Done", intp(-5), intp(0))
	// An open task does not count
	seedTask(t, projectID, userID, "InProgress", intp(7), nil)

	// One extra task assigned to the user, created now
	_, err := config.DB.Exec(
		`INSERT INTO tasks (project_id, title, assigned_to, created_by,
		                    planned_start, planned_end, is_extra)
		 VALUES ($1, 'extra', $2, $2, CURRENT_DATE, CURRENT_DATE + 1, TRUE)`,
		projectID, userID)
	require.NoError(t, err)

	// One kudos pair where the user is the helper
	otherID, _ := createUser(t, "other")
	taskID := seedTask(t, projectID, otherID, "InProgress", intp(7), nil)
	_, err = config.DB.Exec(
		`INSERT INTO daily_logs (user_id, task_id, type, comment, related_user_id, log_date)
		 VALUES ($1, $2, 'HELP_GIVEN', 'helped', $3, CURRENT_DATE)`,
		userID, taskID, otherID)
	require.NoError(t, err)

	status, result := doJSON(t, app, "GET", "/api/v1/reports/dashboard", token, nil)
	require.Equal(t, 200, status)

	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Last 30 Days", data["period"])

	productivity := data["productivity"].(map[string]interface{})
	assert.Equal(t, float64(2), productivity["tasksCompleted"])
	assert.Equal(t, float64(50), productivity["onTimeCompletionRate"])
	assert.Equal(t, float64(1), productivity["extraTasks"])

	collaboration := data["collaboration"].(map[string]interface{})
	assert.Equal(t, float64(1), collaboration["helpGiven"])
	assert.Equal(t, float64(0), collaboration["helpReceived"])
	assert.Equal(t, float64(5), collaboration["collaborationScore"])
}

func TestDashboardEmptyUser(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := memberWithRole(t, app, models.RoleCollaborator)

	status, result := doJSON(t, app, "GET", "/api/v1/reports/dashboard", token, nil)
	require.Equal(t, 200, status)

	productivity := result["data"].(map[string]interface{})["productivity"].(map[string]interface{})
	assert.Equal(t, float64(0), productivity["tasksCompleted"])
	assert.Equal(t, float64(0), productivity["onTimeCompletionRate"], "no completions must not divide by zero")
}

func TestProjectReport(t *testing.T) {
	app := CreateTestApp()
	token, userID, companyID := memberWithRole(t, app, models.RoleManager)
	projectID := createProject(t, companyID)

	// 10 tasks: 2 blocked, 1 overdue (open with planned_end in the
	// past), 3 done, 4 in progress. Penalties 10 and 5, score 85.
	for i := 0; i < 2; i++ {
		seedTask(t, projectID, userID, "Blocked", intp(7), nil)
	}
	seedTask(t, projectID, userID, "InProgress", intp(-2), nil) // overdue
	for i := 0; i < 3; i++ {
		seedTask(t, projectID, userID, "Done", intp(7), intp(0))
	}
	for i := 0; i < 4; i++ {
		seedTask(t, projectID, userID, "InProgress", intp(7), nil)
	}

	status, result := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/reports/project/%d", projectID), token, nil)
	require.Equal(t, 200, status)

	health := result["data"].(map[string]interface{})["projectHealth"].(map[string]interface{})
	assert.Equal(t, float64(10), health["totalTasks"])
	assert.Equal(t, float64(3), health["completedTasks"])
	assert.Equal(t, float64(2), health["blockedTasks"])
	assert.Equal(t, float64(1), health["overdueTasks"])
	assert.Equal(t, float64(85), health["healthScore"])

	performers := result["data"].(map[string]interface{})["topPerformers"].([]interface{})
	require.Len(t, performers, 1)
	top := performers[0].(map[string]interface{})
	assert.Equal(t, float64(3), top["completed_tasks"])

	// Second read comes from the cache with identical numbers
	status, cached := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/reports/project/%d", projectID), token, nil)
	require.Equal(t, 200, status)
	assert.Contains(t, cached["message"], "cache")
	cachedHealth := cached["data"].(map[string]interface{})["projectHealth"].(map[string]interface{})
	assert.Equal(t, float64(85), cachedHealth["healthScore"])
}

func TestProjectReportEmptyProject(t *testing.T) {
	app := CreateTestApp()
	token, _, companyID := memberWithRole(t, app, models.RoleManager)
	projectID := createProject(t, companyID)

	status, result := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/reports/project/%d", projectID), token, nil)
	require.Equal(t, 200, status)

	health := result["data"].(map[string]interface{})["projectHealth"].(map[string]interface{})
	assert.Equal(t, float64(0), health["totalTasks"])
	assert.Equal(t, float64(100), health["healthScore"])
	assert.Equal(t, float64(0), health["averageProgress"])
}
