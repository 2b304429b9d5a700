package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/presence"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
)

type presenceRepository struct {
	db *database.DB
}

// ListByTeam implements presence.Repository. Presence is derived entirely
// from open sessions; there is no stored online flag to drift out of sync.
func (r *presenceRepository) ListByTeam(ctx context.Context, tenantID string, teamID *string) ([]presence.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "e.tenant_id = $1 AND e.employment_status = 'active'"
	args := []interface{}{tenantID}
	if teamID != nil && *teamID != "" {
		baseWhere += " AND e.team_id = $2"
		args = append(args, *teamID)
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.full_name, e.team_id,
		       s.status, s.clock_in, b.start_at AS break_start,
		       last.clock_out AS last_clock_out
		FROM employees e
		LEFT JOIN attendance_sessions s
		       ON s.employee_id = e.id AND s.tenant_id = e.tenant_id AND s.status <> 'completed'
		LEFT JOIN break_intervals b
		       ON b.session_id = s.id AND b.end_at IS NULL
		LEFT JOIN LATERAL (
			SELECT clock_out
			FROM attendance_sessions
			WHERE employee_id = e.id AND tenant_id = e.tenant_id AND status = 'completed'
			ORDER BY clock_out DESC
			LIMIT 1
		) last ON s.id IS NULL
		WHERE %s
		ORDER BY e.full_name
	`, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query presence: %w", err)
	}
	defer rows.Close()

	var snapshots []presence.Snapshot
	for rows.Next() {
		var (
			snap          presence.Snapshot
			sessionStatus *session.Status
			clockIn       *time.Time
			breakStart    *time.Time
			lastClockOut  *time.Time
		)
		if err := rows.Scan(&snap.EmployeeID, &snap.FullName, &snap.TeamID, &sessionStatus, &clockIn, &breakStart, &lastClockOut); err != nil {
			return nil, fmt.Errorf("failed to scan presence row: %w", err)
		}

		switch {
		case sessionStatus != nil && *sessionStatus == session.StatusOnBreak:
			snap.Status = presence.StatusBreak
			if breakStart != nil {
				snap.Since = breakStart
			} else {
				snap.Since = clockIn
			}
		case sessionStatus != nil:
			snap.Status = presence.StatusOnline
			snap.Since = clockIn
		default:
			snap.Status = presence.StatusOffline
			snap.Since = lastClockOut
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

func NewPresenceRepository(db *database.DB) presence.Repository {
	return &presenceRepository{db: db}
}
