package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/approval"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
)

type approvalRepository struct {
	db *database.DB
}

const reviewColumns = `
	s.id, s.tenant_id, s.employee_id, s.assignment_id,
	s.clock_in, s.clock_out, s.break_minutes, s.worked_minutes,
	s.status, s.approval_status, s.break_over_allowance, s.close_reason,
	s.created_at, s.updated_at,
	e.full_name AS employee_name,
	e.team_id AS team_id`

// CreateRecord implements approval.Repository.
func (r *approvalRepository) CreateRecord(ctx context.Context, rec approval.Record) (approval.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO approval_records (tenant_id, session_id, approver_id, decision, notes, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		rec.TenantID,
		rec.SessionID,
		rec.ApproverID,
		rec.Decision,
		rec.Notes,
		rec.DecidedAt,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		return approval.Record{}, fmt.Errorf("failed to create approval record: %w", err)
	}

	return rec, nil
}

// GetBySessionID implements approval.Repository.
func (r *approvalRepository) GetBySessionID(ctx context.Context, tenantID string, sessionID string) (approval.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, session_id, approver_id, decision, notes, decided_at, created_at
		FROM approval_records
		WHERE tenant_id = $1 AND session_id = $2
		ORDER BY decided_at DESC
		LIMIT 1
	`

	var rec approval.Record
	err := q.QueryRow(ctx, query, tenantID, sessionID).Scan(
		&rec.ID, &rec.TenantID, &rec.SessionID, &rec.ApproverID,
		&rec.Decision, &rec.Notes, &rec.DecidedAt, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Record{}, approval.ErrRecordNotFound
		}
		return approval.Record{}, fmt.Errorf("failed to get approval record: %w", err)
	}

	return rec, nil
}

// ListPending implements approval.Repository.
func (r *approvalRepository) ListPending(ctx context.Context, tenantID string, filter approval.PendingFilter) ([]session.Session, int64, error) {
	baseWhere := "s.tenant_id = $1 AND s.status = 'completed' AND s.approval_status = 'pending'"
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.TeamID != nil && *filter.TeamID != "" {
		baseWhere += fmt.Sprintf(" AND e.team_id = $%d", argIdx)
		args = append(args, *filter.TeamID)
		argIdx++
	}

	return r.listSessions(ctx, baseWhere, args, argIdx, filter.Page, filter.Limit)
}

// ListPayable implements approval.Repository.
func (r *approvalRepository) ListPayable(ctx context.Context, tenantID string, filter approval.PayableFilter) ([]session.Session, int64, error) {
	baseWhere := "s.tenant_id = $1 AND s.approval_status = 'approved'"
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND s.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND s.clock_in::date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND s.clock_in::date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	return r.listSessions(ctx, baseWhere, args, argIdx, filter.Page, filter.Limit)
}

func (r *approvalRepository) listSessions(ctx context.Context, baseWhere string, args []interface{}, argIdx int, page int, limit int) ([]session.Session, int64, error) {
	q := GetQuerier(ctx, r.db)

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_sessions s
		LEFT JOIN employees e ON e.id = s.employee_id AND e.tenant_id = s.tenant_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	if limit == 0 {
		limit = 20
	}
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery := fmt.Sprintf(`
		SELECT `+reviewColumns+`
		FROM attendance_sessions s
		LEFT JOIN employees e ON e.id = s.employee_id AND e.tenant_id = s.tenant_id
		WHERE %s
		ORDER BY s.clock_out DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		var s session.Session
		err := rows.Scan(
			&s.ID, &s.TenantID, &s.EmployeeID, &s.AssignmentID,
			&s.ClockIn, &s.ClockOut, &s.BreakMinutes, &s.WorkedMinutes,
			&s.Status, &s.ApprovalStatus, &s.BreakOverAllowance, &s.CloseReason,
			&s.CreatedAt, &s.UpdatedAt,
			&s.EmployeeName, &s.TeamID,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, total, rows.Err()
}

func NewApprovalRepository(db *database.DB) approval.Repository {
	return &approvalRepository{db: db}
}
