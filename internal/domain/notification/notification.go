package notification

import (
	"context"
	"time"
)

type Type string

const (
	TypePresenceChanged    Type = "presence_changed"
	TypeBreakOverAllowance Type = "break_over_allowance"
	TypeSessionAutoClosed  Type = "session_auto_closed"
	TypeSessionSubmitted   Type = "session_submitted"
	TypeApprovalDecided    Type = "approval_decided"
)

type Notification struct {
	ID          string
	TenantID    string
	RecipientID string
	SenderID    *string
	Type        Type
	Title       string
	Message     string
	Data        map[string]interface{}
	ReadAt      *time.Time
	CreatedAt   time.Time
}

type CreateNotificationRequest struct {
	TenantID    string
	RecipientID string
	SenderID    *string
	Type        Type
	Title       string
	Message     string
	Data        map[string]interface{}
}

type Repository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
	ListByRecipient(ctx context.Context, tenantID string, recipientID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, tenantID string, recipientID string, id string) error
}

// Service is the fire-and-forget dispatch collaborator. Queueing never
// blocks a clock transaction; delivery failures are logged and dropped.
type Service interface {
	Queue(ctx context.Context, req CreateNotificationRequest) error
	Stop()
}
