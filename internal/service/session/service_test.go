package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/assignment"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/employee"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/notification"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/presence"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
)

const (
	testTenantID   = "7a3e1f7e-2c13-4d4a-9f6e-0b1c2d3e4f5a"
	testEmployeeID = "b1c2d3e4-f5a6-4b7c-8d9e-0f1a2b3c4d5e"
	testOtherID    = "c2d3e4f5-a6b7-4c8d-9e0f-1a2b3c4d5e6f"
	testUserID     = "d3e4f5a6-b7c8-4d9e-a0f1-2b3c4d5e6f7a"
)

// ========================================
// In-memory fakes
// ========================================

type stubGuard struct {
	scope tenant.Scope
}

func (g *stubGuard) FromContext(ctx context.Context) (tenant.Scope, error) {
	return g.scope, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]session.Session)}
}

func (r *memSessionRepo) Create(ctx context.Context, s session.Session) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sessions {
		if existing.TenantID == s.TenantID && existing.EmployeeID == s.EmployeeID && existing.Open() {
			return session.Session{}, session.ErrAlreadyClockedIn
		}
	}

	s.ID = uuid.NewString()
	r.sessions[s.ID] = s
	return s, nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, tenantID string, id string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.TenantID != tenantID {
		return session.Session{}, session.ErrSessionNotFound
	}
	return s, nil
}

func (r *memSessionRepo) GetOpen(ctx context.Context, tenantID string, employeeID string) (session.Session, error) {
	return r.GetOpenForUpdate(ctx, tenantID, employeeID)
}

func (r *memSessionRepo) GetOpenForUpdate(ctx context.Context, tenantID string, employeeID string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.TenantID == tenantID && s.EmployeeID == employeeID && s.Open() {
			return s, nil
		}
	}
	return session.Session{}, session.ErrNoActiveSession
}

func (r *memSessionRepo) UpdateBreakState(ctx context.Context, tenantID string, sessionID string, breakMinutes int, overAllowance bool, status session.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.TenantID != tenantID || !s.Open() {
		return session.ErrNoActiveSession
	}
	s.BreakMinutes = breakMinutes
	s.BreakOverAllowance = overAllowance
	s.Status = status
	r.sessions[sessionID] = s
	return nil
}

func (r *memSessionRepo) Close(ctx context.Context, tenantID string, sessionID string, clockOut time.Time, workedMinutes int, breakMinutes int, overAllowance bool, closeReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.TenantID != tenantID || !s.Open() {
		return session.ErrNoActiveSession
	}
	s.Status = session.StatusCompleted
	s.ClockOut = &clockOut
	s.WorkedMinutes = &workedMinutes
	s.BreakMinutes = breakMinutes
	s.BreakOverAllowance = overAllowance
	s.CloseReason = &closeReason
	r.sessions[sessionID] = s
	return nil
}

func (r *memSessionRepo) TransitionApproval(ctx context.Context, tenantID string, sessionID string, from session.ApprovalStatus, to session.ApprovalStatus) (session.ApprovalStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.TenantID != tenantID {
		return "", session.ErrSessionNotFound
	}
	if s.ApprovalStatus != from {
		return s.ApprovalStatus, nil
	}
	s.ApprovalStatus = to
	r.sessions[sessionID] = s
	return to, nil
}

func (r *memSessionRepo) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []session.Session
	for _, s := range r.sessions {
		if s.Open() && s.ClockIn.Before(cutoff) {
			stale = append(stale, s)
		}
	}
	return stale, nil
}

type memBreakRepo struct {
	mu        sync.Mutex
	intervals map[string]session.BreakInterval
}

func newMemBreakRepo() *memBreakRepo {
	return &memBreakRepo{intervals: make(map[string]session.BreakInterval)}
}

func (r *memBreakRepo) Open(ctx context.Context, b session.BreakInterval) (session.BreakInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.intervals {
		if existing.SessionID == b.SessionID && existing.EndAt == nil {
			return session.BreakInterval{}, session.ErrAlreadyOnBreak
		}
	}

	b.ID = uuid.NewString()
	r.intervals[b.ID] = b
	return b, nil
}

func (r *memBreakRepo) GetOpenForUpdate(ctx context.Context, tenantID string, sessionID string) (session.BreakInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.intervals {
		if b.TenantID == tenantID && b.SessionID == sessionID && b.EndAt == nil {
			return b, nil
		}
	}
	return session.BreakInterval{}, session.ErrNoActiveBreak
}

func (r *memBreakRepo) Close(ctx context.Context, tenantID string, breakID string, endAt time.Time, durationMinutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.intervals[breakID]
	if !ok || b.TenantID != tenantID || b.EndAt != nil {
		return session.ErrNoActiveBreak
	}
	b.EndAt = &endAt
	b.DurationMinutes = &durationMinutes
	r.intervals[breakID] = b
	return nil
}

func (r *memBreakRepo) TotalMinutes(ctx context.Context, tenantID string, sessionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, b := range r.intervals {
		if b.TenantID == tenantID && b.SessionID == sessionID && b.DurationMinutes != nil {
			total += *b.DurationMinutes
		}
	}
	return total, nil
}

func (r *memBreakRepo) ListBySession(ctx context.Context, tenantID string, sessionID string) ([]session.BreakInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []session.BreakInterval
	for _, b := range r.intervals {
		if b.TenantID == tenantID && b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	return out, nil
}

type stubResolver struct {
	assignment *assignment.Assignment
	resolveErr error
	windowErr  error
}

func (r *stubResolver) Resolve(ctx context.Context, tenantID string, employeeID string, date time.Time) (*assignment.Assignment, error) {
	return r.assignment, r.resolveErr
}

func (r *stubResolver) CheckWindow(a *assignment.Assignment, now time.Time) error {
	if a == nil {
		return assignment.ErrAssignmentNotFound
	}
	return r.windowErr
}

type memEmployeeRepo struct {
	employees   map[string]employee.Employee
	supervisors []string
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, tenantID string, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.TenantID != tenantID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memEmployeeRepo) ListSupervisorUserIDs(ctx context.Context, tenantID string, teamID *string) ([]string, error) {
	return r.supervisors, nil
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
}

func (n *captureNotifier) Queue(ctx context.Context, req notification.CreateNotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, req)
	return nil
}

func (n *captureNotifier) Stop() {}

func (n *captureNotifier) byType(t notification.Type) []notification.CreateNotificationRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notification.CreateNotificationRequest
	for _, req := range n.sent {
		if req.Type == t {
			out = append(out, req)
		}
	}
	return out
}

type capturePublisher struct {
	mu     sync.Mutex
	events []presence.Event
}

func (p *capturePublisher) Publish(tenantID string, ev presence.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *capturePublisher) last() (presence.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return presence.Event{}, false
	}
	return p.events[len(p.events)-1], true
}

// ========================================
// Test harness
// ========================================

type testEnv struct {
	svc       *SessionServiceImpl
	sessions  *memSessionRepo
	breaks    *memBreakRepo
	resolver  *stubResolver
	notifier  *captureNotifier
	publisher *capturePublisher
	clock     *time.Time
}

func newTestEnv(role tenant.Role) *testEnv {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := &start

	sessions := newMemSessionRepo()
	breaks := newMemBreakRepo()
	resolver := &stubResolver{}
	notifier := &captureNotifier{}
	publisher := &capturePublisher{}
	userID := testUserID
	employees := &memEmployeeRepo{
		employees: map[string]employee.Employee{
			testEmployeeID: {ID: testEmployeeID, TenantID: testTenantID, FullName: "Ana Silva", UserID: &userID},
			testOtherID:    {ID: testOtherID, TenantID: testTenantID, FullName: "Budi Santoso"},
		},
		supervisors: []string{"supervisor-user-1"},
	}

	svc := &SessionServiceImpl{
		guard: &stubGuard{scope: tenant.Scope{
			TenantID:   testTenantID,
			UserID:     testUserID,
			EmployeeID: testEmployeeID,
			Role:       role,
		}},
		sessions:         sessions,
		breaks:           breaks,
		resolver:         resolver,
		employees:        employees,
		notifier:         notifier,
		presencePub:      publisher,
		allowanceMinutes: 60,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		now: func() time.Time { return *clock },
	}

	return &testEnv{
		svc:       svc,
		sessions:  sessions,
		breaks:    breaks,
		resolver:  resolver,
		notifier:  notifier,
		publisher: publisher,
		clock:     clock,
	}
}

func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

// ========================================
// Clock-in
// ========================================

func TestClockInCreatesWorkingSession(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	resp, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(session.StatusWorking), resp.Status)
	assert.Equal(t, string(session.ApprovalUnsubmitted), resp.ApprovalStatus)
	assert.Equal(t, testEmployeeID, resp.EmployeeID)
	assert.Equal(t, 0, resp.BreakMinutes)
	assert.Nil(t, resp.WorkedMinutes)

	ev, ok := env.publisher.last()
	require.True(t, ok)
	assert.Equal(t, presence.StatusOnline, ev.Status)
	assert.Equal(t, testEmployeeID, ev.EmployeeID)
}

func TestClockInRejectsSecondOpenSession(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	_, err = env.svc.ClockIn(ctx, session.ClockInRequest{})
	assert.ErrorIs(t, err, session.ErrAlreadyClockedIn)

	// Still rejected while on break.
	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)
	_, err = env.svc.ClockIn(ctx, session.ClockInRequest{})
	assert.ErrorIs(t, err, session.ErrAlreadyClockedIn)
}

func TestClockInAllowedAfterClockOut(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	env.advance(4 * time.Hour)
	_, err = env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)

	env.advance(time.Hour)
	resp, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(session.StatusWorking), resp.Status)
}

func TestConcurrentClockInSingleWinner(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.ClockIn(ctx, session.ClockInRequest{})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, session.ErrAlreadyClockedIn)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestClockInEnforceScheduleRequiresAssignment(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{EnforceSchedule: true})
	assert.ErrorIs(t, err, assignment.ErrAssignmentNotFound)
}

func TestClockInEnforceScheduleOutsideWindow(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	env.resolver.assignment = &assignment.Assignment{
		ID:      uuid.NewString(),
		StartAt: env.clock.Add(-2 * time.Hour),
	}
	env.resolver.windowErr = assignment.ErrOutsideScheduleWindow

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{EnforceSchedule: true})
	assert.ErrorIs(t, err, assignment.ErrOutsideScheduleWindow)
}

func TestClockInLinksAssignment(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	assignmentID := uuid.NewString()
	env.resolver.assignment = &assignment.Assignment{ID: assignmentID, StartAt: *env.clock}

	resp, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.AssignmentID)
	assert.Equal(t, assignmentID, *resp.AssignmentID)
}

func TestClockInWalkInSurvivesResolverFailure(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	env.resolver.resolveErr = assert.AnError

	resp, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.AssignmentID)
}

func TestClockInTargetOtherEmployeeForbiddenForEmployee(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	target := testOtherID
	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{EmployeeID: &target})
	assert.ErrorIs(t, err, tenant.ErrForbiddenTarget)
}

func TestClockInTargetOtherEmployeeAllowedForManager(t *testing.T) {
	env := newTestEnv(tenant.RoleManager)
	ctx := context.Background()

	target := testOtherID
	resp, err := env.svc.ClockIn(ctx, session.ClockInRequest{EmployeeID: &target})
	require.NoError(t, err)
	assert.Equal(t, testOtherID, resp.EmployeeID)
}

// ========================================
// Break ledger
// ========================================

func TestBreakLifecycleMath(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	// 09:00 clock in, 12:00-12:30 lunch, 17:00 clock out.
	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	env.advance(3 * time.Hour)
	resp, err := env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(session.StatusOnBreak), resp.Status)
	require.NotNil(t, resp.OnBreakSince)

	env.advance(30 * time.Minute)
	resp, err = env.svc.EndBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(session.StatusWorking), resp.Status)
	assert.Equal(t, 30, resp.BreakMinutes)

	env.advance(4*time.Hour + 30*time.Minute)
	resp, err = env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(session.StatusCompleted), resp.Status)
	assert.Equal(t, 30, resp.BreakMinutes)
	require.NotNil(t, resp.WorkedMinutes)
	assert.Equal(t, 450, *resp.WorkedMinutes)
	require.NotNil(t, resp.WorkedHours)
	assert.InDelta(t, 7.5, *resp.WorkedHours, 0.001)
	require.NotNil(t, resp.CloseReason)
	assert.Equal(t, session.CloseReasonClockOut, *resp.CloseReason)
}

func TestStartBreakRequiresOpenSession(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.StartBreak(ctx, session.ActionRequest{})
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
}

func TestStartBreakTwiceRejected(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	assert.ErrorIs(t, err, session.ErrAlreadyOnBreak)
}

func TestEndBreakWithoutOpenBreak(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	// No session at all.
	_, err := env.svc.EndBreak(ctx, session.ActionRequest{})
	assert.ErrorIs(t, err, session.ErrNoActiveBreak)

	// Working but not on break.
	_, err = env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)
	_, err = env.svc.EndBreak(ctx, session.ActionRequest{})
	assert.ErrorIs(t, err, session.ErrNoActiveBreak)
}

func TestBreakTotalsAccumulate(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		env.advance(time.Hour)
		_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
		require.NoError(t, err)
		env.advance(10 * time.Minute)
		_, err = env.svc.EndBreak(ctx, session.ActionRequest{})
		require.NoError(t, err)
	}

	env.advance(time.Hour)
	resp, err := env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.BreakMinutes)
}

func TestBreakOverAllowanceFlagsWithoutBlocking(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	env.advance(time.Hour)
	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	// 90 minutes against a 60 minute allowance.
	env.advance(90 * time.Minute)
	resp, err := env.svc.EndBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	assert.True(t, resp.BreakOverAllowance)
	assert.Equal(t, 90, resp.BreakMinutes)

	notices := env.notifier.byType(notification.TypeBreakOverAllowance)
	require.Len(t, notices, 1)
	assert.Equal(t, "supervisor-user-1", notices[0].RecipientID)

	// The overage never blocks clock-out.
	env.advance(time.Hour)
	resp, err = env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)
	assert.True(t, resp.BreakOverAllowance)
}

func TestBreakOverAllowanceNotifiesOnce(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)
	env.advance(70 * time.Minute)
	_, err = env.svc.EndBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	env.advance(time.Hour)
	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)
	env.advance(10 * time.Minute)
	_, err = env.svc.EndBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	// Only the break that crossed the line notifies.
	assert.Len(t, env.notifier.byType(notification.TypeBreakOverAllowance), 1)
}

// ========================================
// Clock-out
// ========================================

func TestClockOutRequiresOpenSession(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockOut(ctx, session.ActionRequest{})
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
}

func TestClockOutForceClosesOpenBreak(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	env.advance(2 * time.Hour)
	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	env.advance(20 * time.Minute)
	resp, err := env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(session.StatusCompleted), resp.Status)
	assert.Equal(t, 20, resp.BreakMinutes)
	require.NotNil(t, resp.WorkedMinutes)
	assert.Equal(t, 120, *resp.WorkedMinutes)

	// The interval itself was closed too.
	total, err := env.breaks.TotalMinutes(ctx, testTenantID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}

func TestClockOutForceCloseRecordsOverage(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	env.advance(time.Hour)
	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	// 90 minutes against a 60 minute allowance, never ended explicitly.
	env.advance(90 * time.Minute)
	resp, err := env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)
	assert.True(t, resp.BreakOverAllowance)
	assert.Equal(t, 90, resp.BreakMinutes)

	// The stored row carries the flag, not just the response.
	stored, err := env.sessions.GetByID(ctx, testTenantID, resp.ID)
	require.NoError(t, err)
	assert.True(t, stored.BreakOverAllowance)

	notices := env.notifier.byType(notification.TypeBreakOverAllowance)
	require.Len(t, notices, 1)
	assert.Equal(t, "supervisor-user-1", notices[0].RecipientID)
}

func TestClockOutAfterFlaggedOverageDoesNotRenotify(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)
	env.advance(70 * time.Minute)
	_, err = env.svc.EndBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	env.advance(time.Hour)
	resp, err := env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)

	assert.True(t, resp.BreakOverAllowance)
	assert.Len(t, env.notifier.byType(notification.TypeBreakOverAllowance), 1)
}

func TestWorkedMinutesNeverNegative(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	// Clock out within the same minute.
	env.advance(20 * time.Second)
	resp, err := env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)

	require.NotNil(t, resp.WorkedMinutes)
	assert.GreaterOrEqual(t, *resp.WorkedMinutes, 0)
}

func TestClockOutPublishesOffline(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	env.advance(time.Hour)
	_, err = env.svc.ClockOut(ctx, session.ActionRequest{})
	require.NoError(t, err)

	ev, ok := env.publisher.last()
	require.True(t, ok)
	assert.Equal(t, presence.StatusOffline, ev.Status)
}

// ========================================
// Current session
// ========================================

func TestCurrentReturnsOpenSession(t *testing.T) {
	env := newTestEnv(tenant.RoleEmployee)
	ctx := context.Background()

	_, err := env.svc.Current(ctx, session.ActionRequest{})
	assert.ErrorIs(t, err, session.ErrNoActiveSession)

	_, err = env.svc.ClockIn(ctx, session.ClockInRequest{})
	require.NoError(t, err)

	env.advance(time.Hour)
	_, err = env.svc.StartBreak(ctx, session.ActionRequest{})
	require.NoError(t, err)

	resp, err := env.svc.Current(ctx, session.ActionRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(session.StatusOnBreak), resp.Status)
	assert.NotNil(t, resp.OnBreakSince)
}
