package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenStore remembers which webhooks of a subscription were already handled
type SeenStore interface {
	// MarkSeen records webhookID and reports whether it was new
	MarkSeen(ctx context.Context, subscriptionID, webhookID string) (bool, error)
}

// MemorySeenStore keeps handled ids in process memory
type MemorySeenStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemorySeenStore creates an empty in-memory store
func NewMemorySeenStore() *MemorySeenStore {
	return &MemorySeenStore{seen: make(map[string]struct{})}
}

// MarkSeen implements SeenStore
func (m *MemorySeenStore) MarkSeen(_ context.Context, subscriptionID, webhookID string) (bool, error) {
	key := subscriptionID + "/" + webhookID
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[key]; ok {
		return false, nil
	}
	m.seen[key] = struct{}{}
	return true, nil
}

// RedisSeenStore shares handled ids between processes with SETNX
type RedisSeenStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisSeenStore stores ids in rdb for ttl
func NewRedisSeenStore(rdb redis.Cmdable, ttl time.Duration) *RedisSeenStore {
	return &RedisSeenStore{rdb: rdb, ttl: ttl}
}

// ConnectRedis opens a client for addr and checks it answers
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func seenKey(subscriptionID, webhookID string) string {
	return fmt.Sprintf("webhooks:seen:%s:%s", subscriptionID, webhookID)
}

// MarkSeen implements SeenStore
func (r *RedisSeenStore) MarkSeen(ctx context.Context, subscriptionID, webhookID string) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, seenKey(subscriptionID, webhookID), time.Now().UnixMilli(), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark webhook %s seen: %w", webhookID, err)
	}
	return ok, nil
}
