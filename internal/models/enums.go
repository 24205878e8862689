package models

// Role is the role a user holds inside one company. Policy decisions
// switch exhaustively over this type instead of comparing raw strings.
type Role string

const (
	RoleManager      Role = "Manager"
	RoleTeamLeader   Role = "Team Leader"
	RoleCollaborator Role = "Collaborator"
	RoleSpectator    Role = "Spectator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleTeamLeader, RoleCollaborator, RoleSpectator:
		return true
	default:
		return false
	}
}

// CanReview reports whether the role may approve or reject extra tasks.
func (r Role) CanReview() bool {
	switch r {
	case RoleManager, RoleTeamLeader:
		return true
	case RoleCollaborator, RoleSpectator:
		return false
	default:
		return false
	}
}

// TaskStatus values are persisted verbatim.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "Todo"
	StatusInProgress TaskStatus = "InProgress"
	StatusBlocked    TaskStatus = "Blocked"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	default:
		return false
	}
}

// ApprovalStatus tracks the sign-off state of extra tasks. A non-extra
// task is always Approved and never transitions.
type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalRejected ApprovalStatus = "Rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalApproved, ApprovalPending, ApprovalRejected:
		return true
	default:
		return false
	}
}

// LogType distinguishes daily progress entries from the two halves of a
// kudos pair.
type LogType string

const (
	LogProgress     LogType = "PROGRESS"
	LogHelpGiven    LogType = "HELP_GIVEN"
	LogHelpReceived LogType = "HELP_RECEIVED"
)

// StatusColor is the traffic-light signal attached to a progress log.
type StatusColor string

const (
	ColorGreen  StatusColor = "Green"
	ColorYellow StatusColor = "Yellow"
	ColorRed    StatusColor = "Red"
)

func (c StatusColor) Valid() bool {
	switch c {
	case ColorGreen, ColorYellow, ColorRed:
		return true
	default:
		return false
	}
}

// Notification types produced by the approval workflow.
const (
	NotifExtraTaskApproval = "EXTRA_TASK_APPROVAL"
	NotifTaskApproved      = "TASK_APPROVED"
	NotifTaskRejected      = "TASK_REJECTED"
)
