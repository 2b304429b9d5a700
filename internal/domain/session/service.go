package session

import "context"

// SessionService is the attendance session state machine:
// NONE -> WORKING <-> ON_BREAK -> COMPLETED.
type SessionService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (SessionResponse, error)
	StartBreak(ctx context.Context, req ActionRequest) (SessionResponse, error)
	EndBreak(ctx context.Context, req ActionRequest) (SessionResponse, error)
	ClockOut(ctx context.Context, req ActionRequest) (SessionResponse, error)
	Current(ctx context.Context, req ActionRequest) (SessionResponse, error)
}
