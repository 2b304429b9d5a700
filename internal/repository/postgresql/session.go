package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
)

type sessionRepository struct {
	db *database.DB
}

const sessionColumns = `
	s.id, s.tenant_id, s.employee_id, s.assignment_id,
	s.clock_in, s.clock_out, s.break_minutes, s.worked_minutes,
	s.status, s.approval_status, s.break_over_allowance, s.close_reason,
	s.created_at, s.updated_at`

func scanSession(row pgx.Row) (session.Session, error) {
	var s session.Session
	err := row.Scan(
		&s.ID, &s.TenantID, &s.EmployeeID, &s.AssignmentID,
		&s.ClockIn, &s.ClockOut, &s.BreakMinutes, &s.WorkedMinutes,
		&s.Status, &s.ApprovalStatus, &s.BreakOverAllowance, &s.CloseReason,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements session.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			tenant_id, employee_id, assignment_id, clock_in, status, approval_status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, break_minutes, break_over_allowance, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.TenantID,
		s.EmployeeID,
		s.AssignmentID,
		s.ClockIn,
		s.Status,
		s.ApprovalStatus,
	).Scan(&s.ID, &s.BreakMinutes, &s.BreakOverAllowance, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err, "uq_open_session") {
			return session.Session{}, session.ErrAlreadyClockedIn
		}
		return session.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return s, nil
}

// GetByID implements session.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, tenantID string, id string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `,
			e.full_name AS employee_name,
			e.team_id AS team_id
		FROM attendance_sessions s
		LEFT JOIN employees e ON e.id = s.employee_id AND e.tenant_id = s.tenant_id
		WHERE s.id = $1 AND s.tenant_id = $2
	`

	var s session.Session
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&s.ID, &s.TenantID, &s.EmployeeID, &s.AssignmentID,
		&s.ClockIn, &s.ClockOut, &s.BreakMinutes, &s.WorkedMinutes,
		&s.Status, &s.ApprovalStatus, &s.BreakOverAllowance, &s.CloseReason,
		&s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.TeamID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get session by ID: %w", err)
	}

	return s, nil
}

// GetOpen implements session.SessionRepository.
func (r *sessionRepository) GetOpen(ctx context.Context, tenantID string, employeeID string) (session.Session, error) {
	return r.getOpen(ctx, tenantID, employeeID, false)
}

// GetOpenForUpdate implements session.SessionRepository.
func (r *sessionRepository) GetOpenForUpdate(ctx context.Context, tenantID string, employeeID string) (session.Session, error) {
	return r.getOpen(ctx, tenantID, employeeID, true)
}

func (r *sessionRepository) getOpen(ctx context.Context, tenantID string, employeeID string, forUpdate bool) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions s
		WHERE s.tenant_id = $1
		  AND s.employee_id = $2
		  AND s.status <> 'completed'
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	s, err := scanSession(q.QueryRow(ctx, query, tenantID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNoActiveSession
		}
		return session.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return s, nil
}

// UpdateBreakState implements session.SessionRepository.
func (r *sessionRepository) UpdateBreakState(ctx context.Context, tenantID string, sessionID string, breakMinutes int, overAllowance bool, status session.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET break_minutes = $1, break_over_allowance = $2, status = $3, updated_at = NOW()
		WHERE id = $4 AND tenant_id = $5 AND status <> 'completed'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, breakMinutes, overAllowance, status, sessionID, tenantID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.ErrNoActiveSession
		}
		return fmt.Errorf("failed to update session break state: %w", err)
	}

	return nil
}

// Close implements session.SessionRepository.
func (r *sessionRepository) Close(ctx context.Context, tenantID string, sessionID string, clockOut time.Time, workedMinutes int, breakMinutes int, overAllowance bool, closeReason string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET clock_out = $1, worked_minutes = $2, break_minutes = $3,
		    break_over_allowance = $4, status = 'completed', close_reason = $5,
		    updated_at = NOW()
		WHERE id = $6 AND tenant_id = $7 AND status <> 'completed'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, clockOut, workedMinutes, breakMinutes, overAllowance, closeReason, sessionID, tenantID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.ErrNoActiveSession
		}
		return fmt.Errorf("failed to close session: %w", err)
	}

	return nil
}

// TransitionApproval implements session.SessionRepository.
func (r *sessionRepository) TransitionApproval(ctx context.Context, tenantID string, sessionID string, from session.ApprovalStatus, to session.ApprovalStatus) (session.ApprovalStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET approval_status = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3 AND approval_status = $4
	`

	tag, err := q.Exec(ctx, query, to, sessionID, tenantID, from)
	if err != nil {
		return "", fmt.Errorf("failed to transition approval status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return to, nil
	}

	var current session.ApprovalStatus
	err = q.QueryRow(ctx,
		`SELECT approval_status FROM attendance_sessions WHERE id = $1 AND tenant_id = $2`,
		sessionID, tenantID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", session.ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to read approval status: %w", err)
	}

	return current, nil
}

// ListStaleOpen implements session.SessionRepository.
func (r *sessionRepository) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions s
		WHERE s.status <> 'completed'
		  AND s.clock_in < $1
		ORDER BY s.clock_in
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale open sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}
