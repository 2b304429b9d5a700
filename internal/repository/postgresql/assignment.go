package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/assignment"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

// GetForDate implements assignment.Repository.
func (r *assignmentRepository) GetForDate(ctx context.Context, tenantID string, employeeID string, date time.Time) (*assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, employee_id, work_date, start_at, end_at, status, created_at, updated_at
		FROM shift_assignments
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND work_date = $3
		  AND status <> 'cancelled'
		ORDER BY start_at
		LIMIT 1
	`

	var a assignment.Assignment
	err := q.QueryRow(ctx, query, tenantID, employeeID, date.Format("2006-01-02")).Scan(
		&a.ID, &a.TenantID, &a.EmployeeID, &a.WorkDate, &a.StartAt, &a.EndAt, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // walk-in: no assignment governs this date
		}
		return nil, fmt.Errorf("failed to get assignment for date: %w", err)
	}

	return &a, nil
}

func NewAssignmentRepository(db *database.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}
