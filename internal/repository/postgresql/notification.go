package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/notification"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// CreateBatch implements notification.Repository.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, tenant_id, recipient_id, sender_id, type, title, message, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, n := range notifications {
		dataJSON, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}

		createdAt := n.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		if _, err := q.Exec(ctx, query,
			n.ID, n.TenantID, n.RecipientID, n.SenderID,
			n.Type, n.Title, n.Message, dataJSON, createdAt,
		); err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}

	return nil
}

// ListByRecipient implements notification.Repository.
func (r *notificationRepository) ListByRecipient(ctx context.Context, tenantID string, recipientID string, limit int) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, tenant_id, recipient_id, sender_id, type, title, message, data, read_at, created_at
		FROM notifications
		WHERE tenant_id = $1 AND recipient_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, tenantID, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var (
			n        notification.Notification
			dataJSON []byte
		)
		if err := rows.Scan(&n.ID, &n.TenantID, &n.RecipientID, &n.SenderID, &n.Type, &n.Title, &n.Message, &dataJSON, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead implements notification.Repository.
func (r *notificationRepository) MarkRead(ctx context.Context, tenantID string, recipientID string, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET read_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND recipient_id = $3 AND read_at IS NULL
	`

	if _, err := q.Exec(ctx, query, id, tenantID, recipientID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}
