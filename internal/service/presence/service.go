package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/presence"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/sse"
)

// ProjectorImpl serves presence snapshots derived from open sessions. A
// short Redis TTL absorbs dashboard refresh storms; singleflight collapses
// concurrent rebuilds of the same key so one query serves them all.
type ProjectorImpl struct {
	store    presence.Repository
	redis    *redis.Client
	cacheTTL time.Duration
	group    singleflight.Group
}

func NewProjector(store presence.Repository, redisClient *redis.Client, cacheTTL time.Duration) *ProjectorImpl {
	return &ProjectorImpl{
		store:    store,
		redis:    redisClient,
		cacheTTL: cacheTTL,
	}
}

// TeamSnapshot implements presence.Projector.
func (p *ProjectorImpl) TeamSnapshot(ctx context.Context, tenantID string, teamID *string) ([]presence.Snapshot, error) {
	key := cacheKey(tenantID, teamID)

	if p.redis != nil {
		cached, err := p.redis.Get(ctx, key).Bytes()
		if err == nil {
			var snapshots []presence.Snapshot
			if err := json.Unmarshal(cached, &snapshots); err == nil {
				return snapshots, nil
			}
		} else if err != redis.Nil {
			slog.Warn("presence cache read failed", "key", key, "error", err)
		}
	}

	result, err, _ := p.group.Do(key, func() (interface{}, error) {
		snapshots, err := p.store.ListByTeam(ctx, tenantID, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to build presence snapshot: %w", err)
		}

		if p.redis != nil {
			if payload, err := json.Marshal(snapshots); err == nil {
				if err := p.redis.Set(ctx, key, payload, p.cacheTTL).Err(); err != nil {
					slog.Warn("presence cache write failed", "key", key, "error", err)
				}
			}
		}

		return snapshots, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]presence.Snapshot), nil
}

func cacheKey(tenantID string, teamID *string) string {
	if teamID != nil {
		return "presence:" + tenantID + ":" + *teamID
	}
	return "presence:" + tenantID
}

// HubPublisher pushes presence events onto the tenant's SSE topic.
type HubPublisher struct {
	hub *sse.Hub
}

func NewHubPublisher(hub *sse.Hub) presence.Publisher {
	return &HubPublisher{hub: hub}
}

// Publish implements presence.Publisher.
func (p *HubPublisher) Publish(tenantID string, ev presence.Event) {
	topic := sse.TenantTopic(tenantID)
	p.hub.Publish(topic, sse.Event{
		Topic: topic,
		Event: "presence_changed",
		Data:  ev,
	})
}
