package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/approval"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/employee"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/notification"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
	"github.com/shiftwise-hq/workforce-backend-go/internal/repository/postgresql"
)

type ApprovalServiceImpl struct {
	guard     tenant.Guard
	sessions  session.SessionRepository
	records   approval.Repository
	employees employee.Repository
	notifier  notification.Service

	runTx func(ctx context.Context, fn func(ctx context.Context) error) error
	now   func() time.Time
}

func NewApprovalService(
	db *database.DB,
	guard tenant.Guard,
	sessionRepo session.SessionRepository,
	recordRepo approval.Repository,
	employeeRepo employee.Repository,
	notifier notification.Service,
) approval.Service {
	return &ApprovalServiceImpl{
		guard:     guard,
		sessions:  sessionRepo,
		records:   recordRepo,
		employees: employeeRepo,
		notifier:  notifier,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Submit implements approval.Service. Submitting an already pending session
// is a no-op so a retried request cannot fail its sender.
func (s *ApprovalServiceImpl) Submit(ctx context.Context, req approval.SubmitRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	sess, err := s.sessions.GetByID(ctx, scope.TenantID, req.SessionID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	if sess.Status != session.StatusCompleted {
		return session.SessionResponse{}, approval.ErrSessionNotCompleted
	}
	if sess.EmployeeID != scope.EmployeeID && !scope.IsSupervisor() {
		return session.SessionResponse{}, tenant.ErrForbiddenTarget
	}

	result, err := s.sessions.TransitionApproval(ctx, scope.TenantID, sess.ID,
		session.ApprovalUnsubmitted, session.ApprovalPending)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to submit session: %w", err)
	}

	switch result {
	case session.ApprovalPending:
		// Applied, or already pending from an earlier submit.
	case session.ApprovalApproved, session.ApprovalRejected:
		return session.SessionResponse{}, approval.ErrAlreadyDecided
	default:
		return session.SessionResponse{}, approval.ErrSessionNotCompleted
	}

	sess.ApprovalStatus = session.ApprovalPending
	s.notifySupervisors(ctx, scope, sess)

	return toSessionResponse(sess), nil
}

// Decide implements approval.Service.
func (s *ApprovalServiceImpl) Decide(ctx context.Context, req approval.DecideRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}
	if !scope.IsSupervisor() {
		return session.SessionResponse{}, tenant.ErrForbiddenTarget
	}

	sess, err := s.sessions.GetByID(ctx, scope.TenantID, req.SessionID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	target := session.ApprovalApproved
	if req.Decision == approval.DecisionRejected {
		target = session.ApprovalRejected
	}
	now := s.now()

	err = s.runTx(ctx, func(txCtx context.Context) error {
		result, err := s.sessions.TransitionApproval(txCtx, scope.TenantID, sess.ID,
			session.ApprovalPending, target)
		if err != nil {
			return fmt.Errorf("failed to decide session: %w", err)
		}
		if result != target {
			if result == session.ApprovalApproved || result == session.ApprovalRejected {
				return approval.ErrAlreadyDecided
			}
			return approval.ErrNotPending
		}

		_, err = s.records.CreateRecord(txCtx, approval.Record{
			TenantID:   scope.TenantID,
			SessionID:  sess.ID,
			ApproverID: scope.UserID,
			Decision:   req.Decision,
			Notes:      req.Notes,
			DecidedAt:  now,
		})
		return err
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	sess.ApprovalStatus = target
	s.notifyEmployee(ctx, scope, sess, req.Decision, req.Notes)

	return toSessionResponse(sess), nil
}

// ListPending implements approval.Service.
func (s *ApprovalServiceImpl) ListPending(ctx context.Context, filter approval.PendingFilter) (session.ListSessionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return session.ListSessionsResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.ListSessionsResponse{}, err
	}
	if !scope.IsSupervisor() {
		return session.ListSessionsResponse{}, tenant.ErrForbiddenTarget
	}

	sessions, total, err := s.records.ListPending(ctx, scope.TenantID, filter)
	if err != nil {
		return session.ListSessionsResponse{}, fmt.Errorf("failed to list pending sessions: %w", err)
	}

	return toListResponse(sessions, total, filter.Page, filter.Limit), nil
}

// ListPayable implements approval.Service.
func (s *ApprovalServiceImpl) ListPayable(ctx context.Context, filter approval.PayableFilter) (session.ListSessionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return session.ListSessionsResponse{}, err
	}

	scope, err := s.guard.FromContext(ctx)
	if err != nil {
		return session.ListSessionsResponse{}, err
	}
	if !scope.IsSupervisor() {
		return session.ListSessionsResponse{}, tenant.ErrForbiddenTarget
	}

	sessions, total, err := s.records.ListPayable(ctx, scope.TenantID, filter)
	if err != nil {
		return session.ListSessionsResponse{}, fmt.Errorf("failed to list payable sessions: %w", err)
	}

	return toListResponse(sessions, total, filter.Page, filter.Limit), nil
}

func (s *ApprovalServiceImpl) notifySupervisors(ctx context.Context, scope tenant.Scope, sess session.Session) {
	if s.notifier == nil || s.employees == nil {
		return
	}

	emp, err := s.employees.GetByID(ctx, scope.TenantID, sess.EmployeeID)
	if err != nil {
		slog.Warn("failed to load employee for submit notice", "session_id", sess.ID, "error", err)
		return
	}

	supervisorIDs, err := s.employees.ListSupervisorUserIDs(ctx, scope.TenantID, emp.TeamID)
	if err != nil {
		slog.Warn("failed to list supervisors for submit notice", "session_id", sess.ID, "error", err)
		return
	}

	for _, userID := range supervisorIDs {
		_ = s.notifier.Queue(ctx, notification.CreateNotificationRequest{
			TenantID:    scope.TenantID,
			RecipientID: userID,
			Type:        notification.TypeSessionSubmitted,
			Title:       "Session submitted for approval",
			Message:     fmt.Sprintf("%s submitted a session for approval", emp.FullName),
			Data: map[string]interface{}{
				"session_id":  sess.ID,
				"employee_id": sess.EmployeeID,
			},
		})
	}
}

func (s *ApprovalServiceImpl) notifyEmployee(ctx context.Context, scope tenant.Scope, sess session.Session, decision approval.Decision, notes *string) {
	if s.notifier == nil || s.employees == nil {
		return
	}

	emp, err := s.employees.GetByID(ctx, scope.TenantID, sess.EmployeeID)
	if err != nil || emp.UserID == nil {
		return
	}

	data := map[string]interface{}{
		"session_id": sess.ID,
		"decision":   string(decision),
	}
	if notes != nil {
		data["notes"] = *notes
	}

	_ = s.notifier.Queue(ctx, notification.CreateNotificationRequest{
		TenantID:    scope.TenantID,
		RecipientID: *emp.UserID,
		SenderID:    &scope.UserID,
		Type:        notification.TypeApprovalDecided,
		Title:       "Session reviewed",
		Message:     fmt.Sprintf("Your session was %s", decision),
		Data:        data,
	})
}

func toSessionResponse(sess session.Session) session.SessionResponse {
	resp := session.SessionResponse{
		ID:                 sess.ID,
		EmployeeID:         sess.EmployeeID,
		EmployeeName:       sess.EmployeeName,
		AssignmentID:       sess.AssignmentID,
		Status:             string(sess.Status),
		ApprovalStatus:     string(sess.ApprovalStatus),
		ClockInTime:        sess.ClockIn.Format(time.RFC3339),
		BreakMinutes:       sess.BreakMinutes,
		WorkedMinutes:      sess.WorkedMinutes,
		BreakOverAllowance: sess.BreakOverAllowance,
		CloseReason:        sess.CloseReason,
	}

	if sess.ClockOut != nil {
		formatted := sess.ClockOut.Format(time.RFC3339)
		resp.ClockOutTime = &formatted
	}
	if sess.WorkedMinutes != nil {
		hours := float64(*sess.WorkedMinutes) / 60.0
		resp.WorkedHours = &hours
	}

	return resp
}

func toListResponse(sessions []session.Session, total int64, page, limit int) session.ListSessionsResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	resp := session.ListSessionsResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Sessions:   make([]session.SessionResponse, 0, len(sessions)),
	}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(sess))
	}

	return resp
}
