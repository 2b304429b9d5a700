package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/presence"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
	"github.com/shiftwise-hq/workforce-backend-go/internal/handler/http/response"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/jwt"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/sse"
)

type PresenceHandler interface {
	TeamSnapshot(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type presenceHandlerImpl struct {
	guard      tenant.Guard
	projector  presence.Projector
	jwtService jwt.Service
	hub        *sse.Hub
}

func NewPresenceHandler(guard tenant.Guard, projector presence.Projector, jwtService jwt.Service, hub *sse.Hub) PresenceHandler {
	return &presenceHandlerImpl{
		guard:      guard,
		projector:  projector,
		jwtService: jwtService,
		hub:        hub,
	}
}

// TeamSnapshot implements PresenceHandler.
func (h *presenceHandlerImpl) TeamSnapshot(w http.ResponseWriter, r *http.Request) {
	scope, err := h.guard.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var teamID *string
	if t := r.URL.Query().Get("team_id"); t != "" {
		teamID = &t
	}

	snapshots, err := h.projector.TeamSnapshot(r.Context(), scope.TenantID, teamID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, snapshots)
}

// StreamToken implements PresenceHandler. EventSource clients cannot send an
// Authorization header, so the stream authenticates with a short-lived token
// minted here under the caller's access token.
func (h *presenceHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	scope, err := h.guard.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(scope.UserID, scope.TenantID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"token":      token,
		"expires_in": expiresIn,
	})
}

// Stream implements PresenceHandler.
func (h *presenceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, tenantID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Presence changes for the whole tenant plus personal notifications.
	tenantEvents, cleanupTenant := h.hub.Subscribe(sse.TenantTopic(tenantID))
	defer cleanupTenant()
	userEvents, cleanupUser := h.hub.Subscribe(sse.UserTopic(userID))
	defer cleanupUser()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-tenantEvents:
			if !ok {
				return
			}
			writeEvent(w, flusher, event)

		case event, ok := <-userEvents:
			if !ok {
				return
			}
			writeEvent(w, flusher, event)

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event sse.Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
	flusher.Flush()
}
