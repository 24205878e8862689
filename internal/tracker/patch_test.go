package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/models"
)

func TestParseTaskPatchDropsUnknownKeys(t *testing.T) {
	patch, err := ParseTaskPatch(map[string]interface{}{
		"bogus":       "value",
		"security":    42,
		"assigned_to": 7, // locked and not even patchable
	})
	require.NoError(t, err)
	assert.True(t, patch.Empty())
}

func TestParseTaskPatchFields(t *testing.T) {
	patch, err := ParseTaskPatch(map[string]interface{}{
		"title":       "New title",
		"description": "New description",
		"progress":    float64(40),
		"status":      "Blocked",
		"planned_end": "2024-02-01",
	})
	require.NoError(t, err)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "New title", *patch.Title)
	require.NotNil(t, patch.Progress)
	assert.Equal(t, 40, *patch.Progress)
	require.NotNil(t, patch.Status)
	assert.Equal(t, models.StatusBlocked, *patch.Status)
	require.NotNil(t, patch.PlannedEnd)
	assert.Equal(t, "2024-02-01", patch.PlannedEnd.Format("2006-01-02"))
	assert.False(t, patch.Empty())
}

func TestParseTaskPatchRejectsBadValues(t *testing.T) {
	cases := []map[string]interface{}{
		{"progress": float64(150)},
		{"progress": float64(-1)},
		{"progress": "forty"},
		{"status": "Cancelled"},
		{"approval_status": "Maybe"},
		{"title": ""},
		{"planned_start": "not-a-date"},
		{"planned_end": 20240201},
	}
	for _, raw := range cases {
		_, err := ParseTaskPatch(raw)
		require.Error(t, err, "raw=%v", raw)
		assert.Equal(t, KindValidation, KindOf(err), "raw=%v", raw)
	}
}

func TestLockedKeys(t *testing.T) {
	hits := LockedKeys(map[string]interface{}{
		"planned_start": "2024-01-01",
		"progress":      float64(10),
		"assigned_to":   3,
	})
	assert.Len(t, hits, 2)

	assert.Empty(t, LockedKeys(map[string]interface{}{
		"progress": float64(10),
		"status":   "InProgress",
	}))
}

func TestAssignments(t *testing.T) {
	title := "T"
	progress := 30
	patch := &TaskPatch{Title: &title, Progress: &progress}

	clauses, args := patch.Assignments()
	require.Len(t, clauses, 2)
	require.Len(t, args, 2)
	assert.Equal(t, "title = $1", clauses[0])
	assert.Equal(t, "progress = $2", clauses[1])
	assert.Equal(t, "T", args[0])
	assert.Equal(t, 30, args[1])
}
