package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/assignment"
)

type resolver struct {
	repo      assignment.Repository
	tolerance time.Duration
}

// NewResolver builds the shift assignment resolver. toleranceMinutes is the
// punctuality window applied on both sides of the scheduled start.
func NewResolver(repo assignment.Repository, toleranceMinutes int) assignment.Resolver {
	return &resolver{
		repo:      repo,
		tolerance: time.Duration(toleranceMinutes) * time.Minute,
	}
}

// Resolve implements assignment.Resolver. A nil result is not an error:
// unscheduled walk-in work is allowed and the session simply goes unlinked.
func (r *resolver) Resolve(ctx context.Context, tenantID string, employeeID string, date time.Time) (*assignment.Assignment, error) {
	a, err := r.repo.GetForDate(ctx, tenantID, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assignment: %w", err)
	}
	return a, nil
}

// CheckWindow implements assignment.Resolver.
func (r *resolver) CheckWindow(a *assignment.Assignment, now time.Time) error {
	if a == nil {
		return assignment.ErrAssignmentNotFound
	}

	diff := now.Sub(a.StartAt)
	if diff < 0 {
		diff = -diff
	}
	if diff > r.tolerance {
		return assignment.ErrOutsideScheduleWindow
	}

	return nil
}
