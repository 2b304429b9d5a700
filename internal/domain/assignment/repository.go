package assignment

import (
	"context"
	"time"
)

// Repository is the read-only lookup into the scheduling subsystem's store.
type Repository interface {
	// GetForDate returns the assignment governing the employee's calendar
	// date within the tenant, or nil when none exists. Cancelled
	// assignments are not returned.
	GetForDate(ctx context.Context, tenantID string, employeeID string, date time.Time) (*Assignment, error)
}

// Resolver finds the assignment for a day and checks punctuality.
type Resolver interface {
	Resolve(ctx context.Context, tenantID string, employeeID string, date time.Time) (*Assignment, error)
	CheckWindow(a *Assignment, now time.Time) error
}
