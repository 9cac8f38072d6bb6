package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio-chat/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Store is the counter backend for the fixed-window limiter. Increment bumps
// the counter for key, starting a new window with the given TTL when no
// counter exists, and returns the count after the increment. Counts are soft:
// increments are not guaranteed atomic across concurrent requests for the
// same key, so thresholds are ceilings with a narrow overshoot window.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter admits requests per client key while the window counter stays
// below the threshold. It approximates a 60-second rolling window with a
// reset-on-expiry counter, not a true sliding window.
type Limiter struct {
	store  Store
	prefix string
	limit  int
	window time.Duration
}

// NewLimiter creates a fixed-window limiter over the given store
func NewLimiter(store Store, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether a request from the given client key is admitted.
// Denied requests do not advance the counter. Store failures admit the
// request: losing rate limiting is preferable to losing the endpoint.
func (l *Limiter) Allow(ctx context.Context, clientKey string) bool {
	key := fmt.Sprintf("%s:%s", l.prefix, clientKey)

	count, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		logger.Log.WithError(err).Warn("Rate limit store unavailable, admitting request")
		return true
	}

	if count > l.limit {
		logger.Log.WithField("client", clientKey).Warn("Rate limit exceeded")
		return false
	}
	return true
}

// RedisStore backs the limiter with a shared Redis counter
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore over an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment bumps the counter and sets the window TTL on first hit
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("error incrementing rate counter: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("error setting rate counter expiry: %w", err)
		}
	}
	return int(count), nil
}

type memoryEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryStore is an in-process fallback store used when Redis is not
// configured, and in tests via the injectable clock
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore using the wall clock
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates a MemoryStore with an injected clock
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     now,
	}
}

// Increment bumps the counter, resetting it when the window has expired
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryEntry{expiresAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, nil
}
