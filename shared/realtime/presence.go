package realtime

//go:generate go run go.uber.org/mock/mockgen -source=./presence.go -destination=./mocks/presence_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"gamasa/config"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	"gamasa/shared/timezone"
)

const (
	cacheKeyPresence = "presence"
	cacheKeyLastSeen = "last_seen"

	lastSeenTTLSeconds = 30 * 24 * 60 * 60
)

type PresenceStatus struct {
	UserID   string     `json:"user_id"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

type Presence interface {
	Touch(ctx context.Context, userID string) error
	Leave(ctx context.Context, userID string) error
	Status(ctx context.Context, userID string) (PresenceStatus, error)
}

type presenceImpl struct {
	cache cache.RedisCache
	ttl   int
}

func NewPresence(cache cache.RedisCache, cfg *config.Config) Presence {
	ttl := cfg.Chat.PresenceTTLSeconds
	if ttl <= 0 {
		ttl = constant.DefaultPresenceTTLSeconds
	}

	return &presenceImpl{
		cache: cache,
		ttl:   ttl,
	}
}

// Touch marks the user online until the presence TTL lapses.
func (p *presenceImpl) Touch(ctx context.Context, userID string) error {
	now := timezone.Now().Format(time.RFC3339)

	if err := p.cache.Save(ctx, shared.BuildCacheKey(cacheKeyPresence, userID), now, p.ttl); err != nil {
		return fmt.Errorf("failed to touch presence: %w", err)
	}

	return nil
}

func (p *presenceImpl) Leave(ctx context.Context, userID string) error {
	now := timezone.Now().Format(time.RFC3339)

	if err := p.cache.Save(ctx, shared.BuildCacheKey(cacheKeyLastSeen, userID), now, lastSeenTTLSeconds); err != nil {
		return fmt.Errorf("failed to record last seen: %w", err)
	}

	if err := p.cache.Delete(ctx, shared.BuildCacheKey(cacheKeyPresence, userID)); err != nil {
		return fmt.Errorf("failed to clear presence: %w", err)
	}

	return nil
}

func (p *presenceImpl) Status(ctx context.Context, userID string) (PresenceStatus, error) {
	status := PresenceStatus{UserID: userID}

	var seen string
	if err := p.cache.Get(ctx, shared.BuildCacheKey(cacheKeyPresence, userID), &seen); err == nil {
		status.Online = true

		return status, nil
	}

	if err := p.cache.Get(ctx, shared.BuildCacheKey(cacheKeyLastSeen, userID), &seen); err == nil {
		if parsed, err := time.Parse(time.RFC3339, seen); err == nil {
			status.LastSeen = &parsed
		}
	}

	return status, nil
}
