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

type breakRepository struct {
	db *database.DB
}

// Open implements session.BreakRepository.
func (r *breakRepository) Open(ctx context.Context, b session.BreakInterval) (session.BreakInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO break_intervals (tenant_id, session_id, start_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, b.TenantID, b.SessionID, b.StartAt).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err, "uq_open_break") {
			return session.BreakInterval{}, session.ErrAlreadyOnBreak
		}
		return session.BreakInterval{}, fmt.Errorf("failed to open break interval: %w", err)
	}

	return b, nil
}

// GetOpenForUpdate implements session.BreakRepository.
func (r *breakRepository) GetOpenForUpdate(ctx context.Context, tenantID string, sessionID string) (session.BreakInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, session_id, start_at, end_at, duration_minutes, created_at
		FROM break_intervals
		WHERE tenant_id = $1 AND session_id = $2 AND end_at IS NULL
		FOR UPDATE
	`

	var b session.BreakInterval
	err := q.QueryRow(ctx, query, tenantID, sessionID).Scan(
		&b.ID, &b.TenantID, &b.SessionID, &b.StartAt, &b.EndAt, &b.DurationMinutes, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.BreakInterval{}, session.ErrNoActiveBreak
		}
		return session.BreakInterval{}, fmt.Errorf("failed to get open break interval: %w", err)
	}

	return b, nil
}

// Close implements session.BreakRepository.
func (r *breakRepository) Close(ctx context.Context, tenantID string, breakID string, endAt time.Time, durationMinutes int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_intervals
		SET end_at = $1, duration_minutes = $2
		WHERE id = $3 AND tenant_id = $4 AND end_at IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, endAt, durationMinutes, breakID, tenantID).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.ErrNoActiveBreak
		}
		return fmt.Errorf("failed to close break interval: %w", err)
	}

	return nil
}

// TotalMinutes implements session.BreakRepository.
func (r *breakRepository) TotalMinutes(ctx context.Context, tenantID string, sessionID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM break_intervals
		WHERE tenant_id = $1 AND session_id = $2 AND end_at IS NOT NULL
	`

	var total int
	if err := q.QueryRow(ctx, query, tenantID, sessionID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum break minutes: %w", err)
	}

	return total, nil
}

// ListBySession implements session.BreakRepository.
func (r *breakRepository) ListBySession(ctx context.Context, tenantID string, sessionID string) ([]session.BreakInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, session_id, start_at, end_at, duration_minutes, created_at
		FROM break_intervals
		WHERE tenant_id = $1 AND session_id = $2
		ORDER BY start_at
	`

	rows, err := q.Query(ctx, query, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query break intervals: %w", err)
	}
	defer rows.Close()

	var breaks []session.BreakInterval
	for rows.Next() {
		var b session.BreakInterval
		if err := rows.Scan(&b.ID, &b.TenantID, &b.SessionID, &b.StartAt, &b.EndAt, &b.DurationMinutes, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan break interval: %w", err)
		}
		breaks = append(breaks, b)
	}

	return breaks, rows.Err()
}

func NewBreakRepository(db *database.DB) session.BreakRepository {
	return &breakRepository{db: db}
}
