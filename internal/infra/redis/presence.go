package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence marks a live quiz session in Redis so external tooling can see
// which quiz a server instance is currently running. Best-effort only; the
// session never depends on it.
type Presence struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPresence(client *redis.Client, ttl time.Duration) *Presence {
	return &Presence{client: client, ttl: ttl}
}

// Mark sets the liveness key for quizID.
func (p *Presence) Mark(ctx context.Context, quizID string) {
	_ = p.client.Set(ctx, p.key(quizID), "1", p.ttl).Err()
}

// Clear removes the liveness key when the session ends.
func (p *Presence) Clear(ctx context.Context, quizID string) {
	_ = p.client.Del(ctx, p.key(quizID)).Err()
}

func (p *Presence) key(quizID string) string {
	return "quiz:session:" + quizID
}
