package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/notification"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/sse"
)

const (
	queueSize   = 256
	workerCount = 2
)

// NotificationServiceImpl persists notifications and pushes them to the
// recipient's SSE topic. Dispatch runs on background workers so queueing
// from inside a clock transaction never blocks on the database.
type NotificationServiceImpl struct {
	repo notification.Repository
	hub  *sse.Hub

	queue   chan notification.Notification
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

func NewNotificationService(repo notification.Repository, hub *sse.Hub) *NotificationServiceImpl {
	s := &NotificationServiceImpl{
		repo:  repo,
		hub:   hub,
		queue: make(chan notification.Notification, queueSize),
	}

	for i := 0; i < workerCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

// Queue implements notification.Service. A full or stopped queue drops the
// notification with a warning instead of blocking the caller.
func (s *NotificationServiceImpl) Queue(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := notification.Notification{
		ID:          uuid.NewString(),
		TenantID:    req.TenantID,
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		slog.Warn("notification dropped, dispatcher stopped", "type", n.Type, "recipient_id", n.RecipientID)
		return nil
	}

	select {
	case s.queue <- n:
	default:
		slog.Warn("notification dropped, queue full", "type", n.Type, "recipient_id", n.RecipientID)
	}

	return nil
}

// Stop drains the queue and waits for the workers to finish.
func (s *NotificationServiceImpl) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.queue)
	s.wg.Wait()
}

func (s *NotificationServiceImpl) worker() {
	defer s.wg.Done()

	for n := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s.repo.CreateBatch(ctx, []notification.Notification{n}); err != nil {
			slog.Error("failed to persist notification", "type", n.Type, "recipient_id", n.RecipientID, "error", err)
		}
		cancel()

		if s.hub != nil {
			topic := sse.UserTopic(n.RecipientID)
			s.hub.Publish(topic, sse.Event{
				Topic: topic,
				Event: string(n.Type),
				Data:  n,
			})
		}
	}
}
