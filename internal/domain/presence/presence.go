package presence

import (
	"context"
	"time"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusBreak   Status = "break"
	StatusOffline Status = "offline"
)

// Snapshot is one employee's derived presence. It is a pure function of the
// open sessions; nothing writes presence state directly.
type Snapshot struct {
	EmployeeID string     `json:"employee_id"`
	FullName   string     `json:"full_name"`
	TeamID     *string    `json:"team_id,omitempty"`
	Status     Status     `json:"status"`
	Since      *time.Time `json:"since,omitempty"`
}

// Repository derives presence snapshots from open sessions joined to the
// employee roster. Employees without an open session come back offline.
type Repository interface {
	ListByTeam(ctx context.Context, tenantID string, teamID *string) ([]Snapshot, error)
}

// Projector is the read-only, eventually-consistent presence view served to
// dashboards.
type Projector interface {
	TeamSnapshot(ctx context.Context, tenantID string, teamID *string) ([]Snapshot, error)
}

// Event is pushed on the live feed when an employee's presence changes.
type Event struct {
	EmployeeID string    `json:"employee_id"`
	Status     Status    `json:"status"`
	Since      time.Time `json:"since"`
}
