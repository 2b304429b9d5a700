package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/employee"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/notification"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/presence"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
	"github.com/shiftwise-hq/workforce-backend-go/internal/repository/postgresql"
)

// SessionJobs sweeps sessions whose employee never clocked out. A session
// older than the max span is force-closed with reason auto_sweep so the
// derived presence view stops showing the employee as online.
type SessionJobs struct {
	sessions         session.SessionRepository
	breaks           session.BreakRepository
	employees        employee.Repository
	notifier         notification.Service
	presencePub      presence.Publisher
	maxSession       time.Duration
	allowanceMinutes int

	runTx func(ctx context.Context, fn func(ctx context.Context) error) error
	now   func() time.Time
}

func NewSessionJobs(
	db *database.DB,
	sessionRepo session.SessionRepository,
	breakRepo session.BreakRepository,
	employeeRepo employee.Repository,
	notifier notification.Service,
	presencePub presence.Publisher,
	maxSessionHours int,
	allowanceMinutes int,
) *SessionJobs {
	return &SessionJobs{
		sessions:         sessionRepo,
		breaks:           breakRepo,
		employees:        employeeRepo,
		notifier:         notifier,
		presencePub:      presencePub,
		maxSession:       time.Duration(maxSessionHours) * time.Hour,
		allowanceMinutes: allowanceMinutes,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Register adds the sweep to the scheduler.
func (j *SessionJobs) Register(s *Scheduler, interval time.Duration) {
	s.AddJob("stale_session_sweep", interval, j.SweepStaleSessions)
}

// SweepStaleSessions force-closes every open session older than the max
// span. Each session is handled in its own transaction so one bad row
// cannot stall the whole sweep.
func (j *SessionJobs) SweepStaleSessions(ctx context.Context) error {
	now := j.now()
	cutoff := now.Add(-j.maxSession)

	stale, err := j.sessions.ListStaleOpen(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale sessions: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	slog.Info("Sweeping stale sessions", "count", len(stale), "cutoff", cutoff)

	var failed int
	for _, sess := range stale {
		if err := j.closeSession(ctx, sess, now); err != nil {
			slog.Error("Failed to sweep session", "session_id", sess.ID, "tenant_id", sess.TenantID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("swept %d sessions, %d failed", len(stale)-failed, failed)
	}
	return nil
}

func (j *SessionJobs) closeSession(ctx context.Context, stale session.Session, now time.Time) error {
	var (
		closed  bool
		crossed bool
		total   int
	)

	err := j.runTx(ctx, func(txCtx context.Context) error {
		open, err := j.sessions.GetOpenForUpdate(txCtx, stale.TenantID, stale.EmployeeID)
		if err != nil {
			// Someone clocked out between the list and the lock.
			if errors.Is(err, session.ErrNoActiveSession) {
				return nil
			}
			return err
		}
		if open.ID != stale.ID {
			return nil
		}

		total = open.BreakMinutes
		if open.Status == session.StatusOnBreak {
			interval, err := j.breaks.GetOpenForUpdate(txCtx, open.TenantID, open.ID)
			if err != nil && !errors.Is(err, session.ErrNoActiveBreak) {
				return err
			}
			if err == nil {
				duration := int(now.Sub(interval.StartAt).Minutes())
				if duration < 0 {
					duration = 0
				}
				if err := j.breaks.Close(txCtx, open.TenantID, interval.ID, now, duration); err != nil {
					return err
				}
				total += duration
			}
		}

		// A force-closed break can push the total past the allowance.
		over := open.BreakOverAllowance || (j.allowanceMinutes > 0 && total > j.allowanceMinutes)
		crossed = over && !open.BreakOverAllowance

		worked := int(now.Sub(open.ClockIn).Minutes()) - total
		if worked < 0 {
			worked = 0
		}

		if err := j.sessions.Close(txCtx, open.TenantID, open.ID, now, worked, total, over, session.CloseReasonAutoSweep); err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return err
	}
	if !closed {
		return nil
	}

	j.notifyAutoClose(ctx, stale)
	if crossed {
		j.notifyBreakOverage(ctx, stale, total)
	}

	if j.presencePub != nil {
		j.presencePub.Publish(stale.TenantID, presence.Event{
			EmployeeID: stale.EmployeeID,
			Status:     presence.StatusOffline,
			Since:      now,
		})
	}

	return nil
}

func (j *SessionJobs) notifyAutoClose(ctx context.Context, stale session.Session) {
	if j.notifier == nil || j.employees == nil {
		return
	}

	emp, err := j.employees.GetByID(ctx, stale.TenantID, stale.EmployeeID)
	if err != nil || emp.UserID == nil {
		return
	}

	_ = j.notifier.Queue(ctx, notification.CreateNotificationRequest{
		TenantID:    stale.TenantID,
		RecipientID: *emp.UserID,
		Type:        notification.TypeSessionAutoClosed,
		Title:       "Session closed automatically",
		Message:     "Your attendance session ran past the maximum span and was closed",
		Data: map[string]interface{}{
			"session_id": stale.ID,
		},
	})
}

func (j *SessionJobs) notifyBreakOverage(ctx context.Context, stale session.Session, totalMinutes int) {
	if j.notifier == nil || j.employees == nil {
		return
	}

	emp, err := j.employees.GetByID(ctx, stale.TenantID, stale.EmployeeID)
	if err != nil {
		slog.Warn("failed to load employee for overage notice", "employee_id", stale.EmployeeID, "error", err)
		return
	}

	supervisorIDs, err := j.employees.ListSupervisorUserIDs(ctx, stale.TenantID, emp.TeamID)
	if err != nil {
		slog.Warn("failed to list supervisors for overage notice", "employee_id", stale.EmployeeID, "error", err)
		return
	}

	for _, userID := range supervisorIDs {
		_ = j.notifier.Queue(ctx, notification.CreateNotificationRequest{
			TenantID:    stale.TenantID,
			RecipientID: userID,
			Type:        notification.TypeBreakOverAllowance,
			Title:       "Break allowance exceeded",
			Message:     fmt.Sprintf("%s has accumulated %d break minutes today", emp.FullName, totalMinutes),
			Data: map[string]interface{}{
				"employee_id":   stale.EmployeeID,
				"break_minutes": totalMinutes,
			},
		})
	}
}
