package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/notification"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
	"github.com/shiftwise-hq/workforce-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	guard tenant.Guard
	repo  notification.Repository
}

func NewNotificationHandler(guard tenant.Guard, repo notification.Repository) NotificationHandler {
	return &notificationHandlerImpl{
		guard: guard,
		repo:  repo,
	}
}

// List implements NotificationHandler.
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	scope, err := h.guard.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	notifications, err := h.repo.ListByRecipient(r.Context(), scope.TenantID, scope.UserID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if notifications == nil {
		notifications = []notification.Notification{}
	}

	response.Success(w, notifications)
}

// MarkRead implements NotificationHandler.
func (h *notificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	scope, err := h.guard.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.repo.MarkRead(r.Context(), scope.TenantID, scope.UserID, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked read", nil)
}
