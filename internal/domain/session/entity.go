package session

import (
	"time"
)

type Status string

const (
	StatusWorking   Status = "working"
	StatusOnBreak   Status = "on_break"
	StatusCompleted Status = "completed"
)

type ApprovalStatus string

const (
	ApprovalUnsubmitted ApprovalStatus = "unsubmitted"
	ApprovalPending     ApprovalStatus = "pending"
	ApprovalApproved    ApprovalStatus = "approved"
	ApprovalRejected    ApprovalStatus = "rejected"
)

const (
	CloseReasonClockOut  = "clock_out"
	CloseReasonAutoSweep = "auto_sweep"
)

// Session is one continuous clock-in-to-clock-out presence record for an
// employee. At most one session per (tenant, employee) may be non-completed
// at a time; the uq_open_session index backs that invariant.
type Session struct {
	ID                 string
	TenantID           string
	EmployeeID         string
	AssignmentID       *string
	ClockIn            time.Time
	ClockOut           *time.Time
	BreakMinutes       int
	WorkedMinutes      *int
	Status             Status
	ApprovalStatus     ApprovalStatus
	BreakOverAllowance bool
	CloseReason        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	EmployeeName *string
	TeamID       *string
}

// Open reports whether the session is still mutable by clock actions.
func (s Session) Open() bool {
	return s.Status != StatusCompleted
}

// BreakInterval is a bounded pause within a session. At most one interval
// per session may have a null end; uq_open_break backs that.
type BreakInterval struct {
	ID              string
	TenantID        string
	SessionID       string
	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
}
