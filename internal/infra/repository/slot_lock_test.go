package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlotLocker(t *testing.T) {
	ctx := context.Background()
	l := NewMemorySlotLocker()

	release, ok, err := l.TryLock(ctx, "2024-10-15T09:00")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryLock(ctx, "2024-10-15T09:00")
	assert.False(t, ok)

	_, ok, _ = l.TryLock(ctx, "2024-10-15T10:00")
	assert.True(t, ok)

	release()
	_, ok, _ = l.TryLock(ctx, "2024-10-15T09:00")
	assert.True(t, ok)
}

func TestRedisSlotLocker(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedisSlotLocker(client, 5*time.Second)

	release, ok, err := l.TryLock(ctx, "2024-10-15T09:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("lock:slot:2024-10-15T09:00"))

	_, ok, err = l.TryLock(ctx, "2024-10-15T09:00")
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists("lock:slot:2024-10-15T09:00"))

	_, ok, _ = l.TryLock(ctx, "2024-10-15T09:00")
	assert.True(t, ok)

	mr.FastForward(6 * time.Second)
	assert.False(t, mr.Exists("lock:slot:2024-10-15T09:00"))
}

func TestRedisSlotLocker_ReleaseKeepsForeignLock(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedisSlotLocker(client, 5*time.Second)

	release, ok, err := l.TryLock(ctx, "2024-10-15T09:00")
	require.NoError(t, err)
	require.True(t, ok)

	// first holder expired, another instance took the slot
	mr.FastForward(6 * time.Second)
	_, ok, err = l.TryLock(ctx, "2024-10-15T09:00")
	require.NoError(t, err)
	require.True(t, ok)
	held, err := mr.Get("lock:slot:2024-10-15T09:00")
	require.NoError(t, err)

	release()

	got, err := mr.Get("lock:slot:2024-10-15T09:00")
	require.NoError(t, err)
	assert.Equal(t, held, got)
}
