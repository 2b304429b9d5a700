package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/assignment"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/employee"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/notification"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/presence"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
	"github.com/shiftwise-hq/workforce-backend-go/internal/repository/postgresql"
)

type SessionServiceImpl struct {
	guard            tenant.Guard
	sessions         session.SessionRepository
	breaks           session.BreakRepository
	resolver         assignment.Resolver
	employees        employee.Repository
	notifier         notification.Service
	presencePub      presence.Publisher
	allowanceMinutes int

	runTx func(ctx context.Context, fn func(ctx context.Context) error) error
	now   func() time.Time
}

func NewSessionService(
	db *database.DB,
	guard tenant.Guard,
	sessionRepo session.SessionRepository,
	breakRepo session.BreakRepository,
	resolver assignment.Resolver,
	employeeRepo employee.Repository,
	notifier notification.Service,
	presencePub presence.Publisher,
	allowanceMinutes int,
) session.SessionService {
	return &SessionServiceImpl{
		guard:            guard,
		sessions:         sessionRepo,
		breaks:           breakRepo,
		resolver:         resolver,
		employees:        employeeRepo,
		notifier:         notifier,
		presencePub:      presencePub,
		allowanceMinutes: allowanceMinutes,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// withRetry runs the transaction and retries it exactly once when the
// failure is a detected serialization conflict. Precondition errors are
// never retried; the caller has to refresh state first.
func (s *SessionServiceImpl) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := s.runTx(ctx, fn)
	if err != nil && postgresql.IsSerializationFailure(err) {
		return s.runTx(ctx, fn)
	}
	return err
}

// ClockIn implements session.SessionService.
func (s *SessionServiceImpl) ClockIn(ctx context.Context, req session.ClockInRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	employeeID, err := scope.TargetEmployee(req.EmployeeID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	now := s.now()

	linked, err := s.resolver.Resolve(ctx, scope.TenantID, employeeID, now)
	if err != nil {
		if req.EnforceSchedule {
			return session.SessionResponse{}, err
		}
		// Walk-in clock-ins must not fail on a broken assignment lookup.
		slog.Warn("assignment lookup failed, clocking in unlinked",
			"employee_id", employeeID, "error", err)
		linked = nil
	}

	if req.EnforceSchedule {
		if linked == nil {
			return session.SessionResponse{}, assignment.ErrAssignmentNotFound
		}
		if err := s.resolver.CheckWindow(linked, now); err != nil {
			return session.SessionResponse{}, err
		}
	}

	newSession := session.Session{
		TenantID:       scope.TenantID,
		EmployeeID:     employeeID,
		ClockIn:        now,
		Status:         session.StatusWorking,
		ApprovalStatus: session.ApprovalUnsubmitted,
	}
	if linked != nil {
		newSession.AssignmentID = &linked.ID
	}

	// The insert is a single atomic statement; the open-session unique
	// index rejects the loser of a concurrent clock-in race.
	created, err := s.sessions.Create(ctx, newSession)
	if err != nil {
		if errors.Is(err, session.ErrAlreadyClockedIn) {
			return session.SessionResponse{}, session.ErrAlreadyClockedIn
		}
		return session.SessionResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	s.publishPresence(scope.TenantID, employeeID, presence.StatusOnline, now)

	return s.toResponse(created, nil), nil
}

// StartBreak implements session.SessionService.
func (s *SessionServiceImpl) StartBreak(ctx context.Context, req session.ActionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	employeeID, err := scope.TargetEmployee(req.EmployeeID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	now := s.now()
	var resp session.SessionResponse

	err = s.withRetry(ctx, func(txCtx context.Context) error {
		open, err := s.sessions.GetOpenForUpdate(txCtx, scope.TenantID, employeeID)
		if err != nil {
			return err
		}
		if open.Status == session.StatusOnBreak {
			return session.ErrAlreadyOnBreak
		}

		interval, err := s.breaks.Open(txCtx, session.BreakInterval{
			TenantID:  scope.TenantID,
			SessionID: open.ID,
			StartAt:   now,
		})
		if err != nil {
			return err
		}

		if err := s.sessions.UpdateBreakState(txCtx, scope.TenantID, open.ID, open.BreakMinutes, open.BreakOverAllowance, session.StatusOnBreak); err != nil {
			return err
		}

		open.Status = session.StatusOnBreak
		resp = s.toResponse(open, &interval.StartAt)
		return nil
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	s.publishPresence(scope.TenantID, employeeID, presence.StatusBreak, now)

	return resp, nil
}

// EndBreak implements session.SessionService.
func (s *SessionServiceImpl) EndBreak(ctx context.Context, req session.ActionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	employeeID, err := scope.TargetEmployee(req.EmployeeID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	now := s.now()
	var (
		resp       session.SessionResponse
		crossed    bool
		totalAfter int
	)

	err = s.withRetry(ctx, func(txCtx context.Context) error {
		open, err := s.sessions.GetOpenForUpdate(txCtx, scope.TenantID, employeeID)
		if err != nil {
			if errors.Is(err, session.ErrNoActiveSession) {
				return session.ErrNoActiveBreak
			}
			return err
		}
		if open.Status != session.StatusOnBreak {
			return session.ErrNoActiveBreak
		}

		interval, err := s.breaks.GetOpenForUpdate(txCtx, scope.TenantID, open.ID)
		if err != nil {
			return err
		}

		duration := minutesBetween(interval.StartAt, now)
		if err := s.breaks.Close(txCtx, scope.TenantID, interval.ID, now, duration); err != nil {
			return err
		}

		totalAfter = open.BreakMinutes + duration
		over := open.BreakOverAllowance || overAllowance(totalAfter, s.allowanceMinutes)
		crossed = over && !open.BreakOverAllowance

		if err := s.sessions.UpdateBreakState(txCtx, scope.TenantID, open.ID, totalAfter, over, session.StatusWorking); err != nil {
			return err
		}

		open.Status = session.StatusWorking
		open.BreakMinutes = totalAfter
		open.BreakOverAllowance = over
		resp = s.toResponse(open, nil)
		return nil
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	// Overage is recorded and flagged, never blocked: rejecting the close
	// would strand the employee mid-shift. Supervisors get told instead.
	if crossed {
		s.notifyBreakOverage(ctx, scope, employeeID, totalAfter)
	}

	s.publishPresence(scope.TenantID, employeeID, presence.StatusOnline, now)

	return resp, nil
}

// ClockOut implements session.SessionService.
func (s *SessionServiceImpl) ClockOut(ctx context.Context, req session.ActionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	employeeID, err := scope.TargetEmployee(req.EmployeeID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	now := s.now()
	var (
		resp       session.SessionResponse
		crossed    bool
		totalAfter int
	)

	err = s.withRetry(ctx, func(txCtx context.Context) error {
		open, err := s.sessions.GetOpenForUpdate(txCtx, scope.TenantID, employeeID)
		if err != nil {
			return err
		}

		total := open.BreakMinutes
		if open.Status == session.StatusOnBreak {
			// Force-close the open break; its minutes still count.
			interval, err := s.breaks.GetOpenForUpdate(txCtx, scope.TenantID, open.ID)
			if err != nil && !errors.Is(err, session.ErrNoActiveBreak) {
				return err
			}
			if err == nil {
				duration := minutesBetween(interval.StartAt, now)
				if err := s.breaks.Close(txCtx, scope.TenantID, interval.ID, now, duration); err != nil {
					return err
				}
				total += duration
			}
		}

		// The force-closed break can push the total past the allowance; the
		// flag has to land on the stored row, not just the response.
		over := open.BreakOverAllowance || overAllowance(total, s.allowanceMinutes)
		crossed = over && !open.BreakOverAllowance
		totalAfter = total

		worked := workedMinutes(open.ClockIn, now, total)
		if err := s.sessions.Close(txCtx, scope.TenantID, open.ID, now, worked, total, over, session.CloseReasonClockOut); err != nil {
			return err
		}

		open.Status = session.StatusCompleted
		open.ClockOut = &now
		open.BreakMinutes = total
		open.WorkedMinutes = &worked
		reason := session.CloseReasonClockOut
		open.CloseReason = &reason
		open.BreakOverAllowance = over
		resp = s.toResponse(open, nil)
		return nil
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	if crossed {
		s.notifyBreakOverage(ctx, scope, employeeID, totalAfter)
	}

	s.publishPresence(scope.TenantID, employeeID, presence.StatusOffline, now)

	return resp, nil
}

// Current implements session.SessionService.
func (s *SessionServiceImpl) Current(ctx context.Context, req session.ActionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	employeeID, err := scope.TargetEmployee(req.EmployeeID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	open, err := s.sessions.GetOpen(ctx, scope.TenantID, employeeID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	var onBreakSince *time.Time
	if open.Status == session.StatusOnBreak {
		intervals, err := s.breaks.ListBySession(ctx, scope.TenantID, open.ID)
		if err != nil {
			return session.SessionResponse{}, fmt.Errorf("failed to list break intervals: %w", err)
		}
		for _, b := range intervals {
			if b.EndAt == nil {
				start := b.StartAt
				onBreakSince = &start
				break
			}
		}
	}

	return s.toResponse(open, onBreakSince), nil
}

func (s *SessionServiceImpl) publishPresence(tenantID string, employeeID string, status presence.Status, since time.Time) {
	if s.presencePub == nil {
		return
	}
	s.presencePub.Publish(tenantID, presence.Event{
		EmployeeID: employeeID,
		Status:     status,
		Since:      since,
	})
}

func (s *SessionServiceImpl) notifyBreakOverage(ctx context.Context, scope tenant.Scope, employeeID string, totalMinutes int) {
	if s.notifier == nil || s.employees == nil {
		return
	}

	emp, err := s.employees.GetByID(ctx, scope.TenantID, employeeID)
	if err != nil {
		slog.Warn("failed to load employee for overage notice", "employee_id", employeeID, "error", err)
		return
	}

	supervisorIDs, err := s.employees.ListSupervisorUserIDs(ctx, scope.TenantID, emp.TeamID)
	if err != nil {
		slog.Warn("failed to list supervisors for overage notice", "employee_id", employeeID, "error", err)
		return
	}

	for _, userID := range supervisorIDs {
		_ = s.notifier.Queue(ctx, notification.CreateNotificationRequest{
			TenantID:    scope.TenantID,
			RecipientID: userID,
			Type:        notification.TypeBreakOverAllowance,
			Title:       "Break allowance exceeded",
			Message:     fmt.Sprintf("%s has accumulated %d break minutes today", emp.FullName, totalMinutes),
			Data: map[string]interface{}{
				"employee_id":   employeeID,
				"break_minutes": totalMinutes,
			},
		})
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func (s *SessionServiceImpl) toResponse(sess session.Session, onBreakSince *time.Time) session.SessionResponse {
	resp := session.SessionResponse{
		ID:                 sess.ID,
		EmployeeID:         sess.EmployeeID,
		EmployeeName:       sess.EmployeeName,
		AssignmentID:       sess.AssignmentID,
		Status:             string(sess.Status),
		ApprovalStatus:     string(sess.ApprovalStatus),
		ClockInTime:        sess.ClockIn.Format(time.RFC3339),
		ClockOutTime:       timePtrToString(sess.ClockOut),
		BreakMinutes:       sess.BreakMinutes,
		OnBreakSince:       timePtrToString(onBreakSince),
		WorkedMinutes:      sess.WorkedMinutes,
		BreakOverAllowance: sess.BreakOverAllowance,
		CloseReason:        sess.CloseReason,
	}

	if sess.WorkedMinutes != nil {
		hours := float64(*sess.WorkedMinutes) / 60.0
		resp.WorkedHours = &hours
	}

	return resp
}
