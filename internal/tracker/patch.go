package tracker

import (
	"fmt"
	"time"

	"project-tracker/internal/models"
)

// TaskPatch is the typed form of a partial task update: one optional
// slot per updatable column. Unknown keys in the incoming map are
// silently dropped; that filter is the contract, matching the
// allow-list behaviour of the update endpoint.
type TaskPatch struct {
	Title          *string
	Description    *string
	PlannedStart   *time.Time
	PlannedEnd     *time.Time
	RealStart      *time.Time
	RealEnd        *time.Time
	Status         *models.TaskStatus
	Progress       *int
	ApprovalStatus *models.ApprovalStatus
}

// Fields a Collaborator may not touch once a task exists. assigned_to
// is not even patchable, but a Collaborator asking for it is still a
// lock violation, not a silent drop.
var lockedFields = map[string]bool{
	"planned_start": true,
	"planned_end":   true,
	"title":         true,
	"assigned_to":   true,
}

// LockedKeys returns the requested keys that hit the Collaborator
// lock-list. It inspects the raw request, before allow-list filtering.
func LockedKeys(raw map[string]interface{}) []string {
	var hits []string
	for key := range raw {
		if lockedFields[key] {
			hits = append(hits, key)
		}
	}
	return hits
}

func parseDate(key string, v interface{}) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, Validation(fmt.Sprintf("field %s must be a date string", key))
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, Validation(fmt.Sprintf("field %s is not a valid date", key))
}

func parseString(key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", Validation(fmt.Sprintf("field %s must be a string", key))
	}
	return s, nil
}

func parseInt(key string, v interface{}) (int, error) {
	// JSON numbers decode as float64
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, Validation(fmt.Sprintf("field %s must be a number", key))
	}
}

// ParseTaskPatch builds a TaskPatch from a free-form JSON object. Keys
// outside the allow-list are dropped without error; values that fail to
// parse or violate an enum or range are Validation errors.
func ParseTaskPatch(raw map[string]interface{}) (*TaskPatch, error) {
	patch := &TaskPatch{}
	for key, value := range raw {
		switch key {
		case "title":
			s, err := parseString(key, value)
			if err != nil {
				return nil, err
			}
			if s == "" {
				return nil, Validation("title cannot be empty")
			}
			patch.Title = &s
		case "description":
			s, err := parseString(key, value)
			if err != nil {
				return nil, err
			}
			patch.Description = &s
		case "planned_start":
			t, err := parseDate(key, value)
			if err != nil {
				return nil, err
			}
			patch.PlannedStart = &t
		case "planned_end":
			t, err := parseDate(key, value)
			if err != nil {
				return nil, err
			}
			patch.PlannedEnd = &t
		case "real_start":
			t, err := parseDate(key, value)
			if err != nil {
				return nil, err
			}
			patch.RealStart = &t
		case "real_end":
			t, err := parseDate(key, value)
			if err != nil {
				return nil, err
			}
			patch.RealEnd = &t
		case "status":
			s, err := parseString(key, value)
			if err != nil {
				return nil, err
			}
			status := models.TaskStatus(s)
			if !status.Valid() {
				return nil, Validation("invalid status")
			}
			patch.Status = &status
		case "progress":
			n, err := parseInt(key, value)
			if err != nil {
				return nil, err
			}
			if n < 0 || n > 100 {
				return nil, Validation("progress must be between 0 and 100")
			}
			patch.Progress = &n
		case "approval_status":
			s, err := parseString(key, value)
			if err != nil {
				return nil, err
			}
			approval := models.ApprovalStatus(s)
			if !approval.Valid() {
				return nil, Validation("invalid approval status")
			}
			patch.ApprovalStatus = &approval
		default:
			// not on the allow-list, drop
		}
	}
	return patch, nil
}

func (p *TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil &&
		p.PlannedStart == nil && p.PlannedEnd == nil &&
		p.RealStart == nil && p.RealEnd == nil &&
		p.Status == nil && p.Progress == nil && p.ApprovalStatus == nil
}

// Assignments renders the patch as SET clauses with positional
// placeholders starting at $1, plus the matching argument list.
func (p *TaskPatch) Assignments() ([]string, []interface{}) {
	var clauses []string
	var args []interface{}
	add := func(column string, value interface{}) {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.PlannedStart != nil {
		add("planned_start", *p.PlannedStart)
	}
	if p.PlannedEnd != nil {
		add("planned_end", *p.PlannedEnd)
	}
	if p.RealStart != nil {
		add("real_start", *p.RealStart)
	}
	if p.RealEnd != nil {
		add("real_end", *p.RealEnd)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.Progress != nil {
		add("progress", *p.Progress)
	}
	if p.ApprovalStatus != nil {
		add("approval_status", string(*p.ApprovalStatus))
	}
	return clauses, args
}
