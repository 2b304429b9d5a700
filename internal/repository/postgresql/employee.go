package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/employee"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

// GetByID implements employee.Repository.
func (r *employeeRepository) GetByID(ctx context.Context, tenantID string, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, organization_id, user_id, full_name, team_id,
		       is_supervisor, employment_status, created_at, updated_at
		FROM employees
		WHERE id = $1 AND tenant_id = $2
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&e.ID, &e.TenantID, &e.OrganizationID, &e.UserID, &e.FullName, &e.TeamID,
		&e.IsSupervisor, &e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return e, nil
}

// ListSupervisorUserIDs implements employee.Repository.
func (r *employeeRepository) ListSupervisorUserIDs(ctx context.Context, tenantID string, teamID *string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := `tenant_id = $1 AND is_supervisor AND user_id IS NOT NULL AND employment_status = 'active'`
	args := []interface{}{tenantID}
	if teamID != nil && *teamID != "" {
		baseWhere += " AND team_id = $2"
		args = append(args, *teamID)
	}

	rows, err := q.Query(ctx, `SELECT user_id FROM employees WHERE `+baseWhere, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query supervisors: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan supervisor user id: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs, rows.Err()
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}
