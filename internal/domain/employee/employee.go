package employee

import (
	"context"
	"errors"
	"time"
)

// Employee is the engine's read-only view of the roster. Administration of
// employees belongs to the tenant management subsystem.
type Employee struct {
	ID               string
	TenantID         string
	OrganizationID   string
	UserID           *string
	FullName         string
	TeamID           *string
	IsSupervisor     bool
	EmploymentStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

var ErrEmployeeNotFound = errors.New("employee not found")

type Repository interface {
	GetByID(ctx context.Context, tenantID string, id string) (Employee, error)
	// ListSupervisorUserIDs returns the user ids of supervisors to notify,
	// optionally narrowed to one team.
	ListSupervisorUserIDs(ctx context.Context, tenantID string, teamID *string) ([]string, error)
}
