package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
)

// MemorySlotLocker reserves slots within one process.
type MemorySlotLocker struct {
	mu    sync.Mutex
	slots map[string]*sync.Mutex
}

func NewMemorySlotLocker() *MemorySlotLocker {
	return &MemorySlotLocker{slots: make(map[string]*sync.Mutex)}
}

func (l *MemorySlotLocker) TryLock(_ context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	m, ok := l.slots[key]
	if !ok {
		m = &sync.Mutex{}
		l.slots[key] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, false, nil
	}
	return m.Unlock, true, nil
}

// releaseScript deletes the lock only while it still holds the caller's
// token, so an expired holder cannot free a slot someone else reserved.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSlotLocker reserves slots across instances with SETNX. The TTL
// bounds how long a crashed holder can block a slot.
type RedisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) *RedisSlotLocker {
	return &RedisSlotLocker{client: client, ttl: ttl}
}

func (l *RedisSlotLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	lockKey := slotLockKey(key)

	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		_ = releaseScript.Run(context.Background(), l.client, []string{lockKey}, token).Err()
	}
	return release, true, nil
}

func slotLockKey(key string) string {
	return fmt.Sprintf("lock:slot:%s", key)
}

var (
	_ domain.SlotLocker = (*MemorySlotLocker)(nil)
	_ domain.SlotLocker = (*RedisSlotLocker)(nil)
)
