package approval

import (
	"context"

	sessiondomain "github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
)

// Service is the approval gate over completed sessions:
// unsubmitted -> pending -> {approved | rejected}, no way back.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (sessiondomain.SessionResponse, error)
	Decide(ctx context.Context, req DecideRequest) (sessiondomain.SessionResponse, error)
	ListPending(ctx context.Context, filter PendingFilter) (sessiondomain.ListSessionsResponse, error)
	ListPayable(ctx context.Context, filter PayableFilter) (sessiondomain.ListSessionsResponse, error)
}
