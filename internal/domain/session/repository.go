package session

import (
	"context"
	"time"
)

// SessionRepository persists attendance sessions. Implementations must map
// a unique violation on the open-session index to ErrAlreadyClockedIn and a
// missing open session to ErrNoActiveSession.
type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, tenantID string, id string) (Session, error)
	GetOpen(ctx context.Context, tenantID string, employeeID string) (Session, error)
	// GetOpenForUpdate locks the open session row for the duration of the
	// surrounding transaction.
	GetOpenForUpdate(ctx context.Context, tenantID string, employeeID string) (Session, error)
	// UpdateBreakState writes the accumulated break total, the overage flag
	// and the working/on_break status of an open session.
	UpdateBreakState(ctx context.Context, tenantID string, sessionID string, breakMinutes int, overAllowance bool, status Status) error
	// Close completes a session: clock-out time, worked minutes, final break
	// total, overage flag and close reason. A force-closed break can push the
	// total past the allowance, so the flag is recomputed on close. Completed
	// sessions are immutable afterwards except for the approval sub-state.
	Close(ctx context.Context, tenantID string, sessionID string, clockOut time.Time, workedMinutes int, breakMinutes int, overAllowance bool, closeReason string) error
	// TransitionApproval flips the approval sub-state only when the current
	// value matches from. The returned status is to when the transition
	// applied and the unchanged current value otherwise.
	TransitionApproval(ctx context.Context, tenantID string, sessionID string, from ApprovalStatus, to ApprovalStatus) (ApprovalStatus, error)
	// ListStaleOpen returns open sessions from every tenant whose clock-in
	// is older than the cutoff. Used by the reconciliation sweep only.
	ListStaleOpen(ctx context.Context, cutoff time.Time) ([]Session, error)
}

// BreakRepository persists break intervals, the ledger under a session.
// Implementations must map a unique violation on the open-break index to
// ErrAlreadyOnBreak and a missing open break to ErrNoActiveBreak.
type BreakRepository interface {
	Open(ctx context.Context, b BreakInterval) (BreakInterval, error)
	GetOpenForUpdate(ctx context.Context, tenantID string, sessionID string) (BreakInterval, error)
	Close(ctx context.Context, tenantID string, breakID string, endAt time.Time, durationMinutes int) error
	TotalMinutes(ctx context.Context, tenantID string, sessionID string) (int, error)
	ListBySession(ctx context.Context, tenantID string, sessionID string) ([]BreakInterval, error)
}
