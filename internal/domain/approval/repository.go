package approval

import (
	"context"

	sessiondomain "github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
)

type Repository interface {
	CreateRecord(ctx context.Context, rec Record) (Record, error)
	GetBySessionID(ctx context.Context, tenantID string, sessionID string) (Record, error)
	// ListPending returns completed sessions awaiting a decision, optionally
	// narrowed to one team.
	ListPending(ctx context.Context, tenantID string, filter PendingFilter) ([]sessiondomain.Session, int64, error)
	// ListPayable returns approved sessions, the only ones payroll may read.
	ListPayable(ctx context.Context, tenantID string, filter PayableFilter) ([]sessiondomain.Session, int64, error)
}
