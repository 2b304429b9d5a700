package assignment

import "time"

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Assignment is the shift the scheduling subsystem planned for an employee
// on a calendar day. The session engine only reads it, either to link a
// session to the shift it fulfils or to enforce punctuality.
type Assignment struct {
	ID         string
	TenantID   string
	EmployeeID string
	WorkDate   time.Time
	StartAt    time.Time
	EndAt      time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
