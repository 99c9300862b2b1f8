package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDedupWindow is how long a (template, recipient) pair stays claimed.
const DefaultDedupWindow = time.Hour

// Deduper suppresses repeat sends of the same templated notification to the
// same recipient inside a window. Claim returns true exactly once per key
// per window.
type Deduper interface {
	Claim(ctx context.Context, key string, window time.Duration) (bool, error)
}

// DedupKey builds the claim key for a templated send.
func DedupKey(templateID, recipientID string) string {
	return fmt.Sprintf("notify:dedup:%s:%s", templateID, recipientID)
}

// MemoryDeduper is an in-process Deduper for tests and single-instance
// deployments. Expired claims are dropped lazily on the next Claim.
type MemoryDeduper struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

// NewMemoryDeduper creates an empty in-memory deduper.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{
		claims: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (d *MemoryDeduper) Claim(ctx context.Context, key string, window time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if expiry, ok := d.claims[key]; ok && now.Before(expiry) {
		return false, nil
	}
	d.claims[key] = now.Add(window)
	return true, nil
}

// RedisDeduper shares the dedup window across service instances using
// SET NX with a TTL.
type RedisDeduper struct {
	client redis.UniversalClient
}

// NewRedisDeduper creates a Redis-backed deduper.
func NewRedisDeduper(client redis.UniversalClient) *RedisDeduper {
	return &RedisDeduper{client: client}
}

func (d *RedisDeduper) Claim(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, key, "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}
