package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"dealsadmin/pkg/contextx"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	s := New("tok", "admin@example.com", time.Hour, time.Now())
	rq.NoError(store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	rq.NoError(err)
	rq.Equal(s, got)

	rq.NoError(store.Delete(ctx, s.ID))

	_, err = store.Get(ctx, s.ID)
	rq.ErrorIs(err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	ctx := context.Background()
	now := time.Now()

	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	rq.ErrorIs(store.Save(ctx, Session{ID: "gone", ExpiresAt: now.Add(-time.Second)}), ErrExpired)

	s := Session{ID: "short", Token: "tok", ExpiresAt: now.Add(time.Hour)}
	rq.NoError(store.Save(ctx, s))

	store.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, err := store.Get(ctx, s.ID)
	rq.ErrorIs(err, ErrNotFound)
}

func TestMemoryStore_Unknown(t *testing.T) {
	t.Parallel()

	_, err := NewMemoryStore(time.Minute).Get(context.Background(), contextx.SessionID("nope"))
	require.ErrorIs(t, err, ErrNotFound)
}

// Runs against a real server when TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)

	s := New("tok", "admin@example.com", time.Minute, time.Now())
	rq.NoError(store.Save(ctx, s))

	ttl, err := client.TTL(ctx, redisKeyPrefix+s.ID.String()).Result()
	rq.NoError(err)
	rq.Positive(ttl)

	got, err := store.Get(ctx, s.ID)
	rq.NoError(err)
	rq.Equal(s.Token, got.Token)
	rq.Equal(s.Email, got.Email)
	rq.True(s.ExpiresAt.Equal(got.ExpiresAt))

	rq.NoError(store.Delete(ctx, s.ID))

	_, err = store.Get(ctx, s.ID)
	rq.ErrorIs(err, ErrNotFound)
}

func TestRedisKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "admin_token:abc", redisKey("abc"))
}
