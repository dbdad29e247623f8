package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id contextx.SessionID) (Session, error)
	Delete(ctx context.Context, id contextx.SessionID) error
}

// MemoryStore keeps sessions in process. Entries expire with their session.
type MemoryStore struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
		now:   time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return ErrExpired
	}

	m.cache.Set(s.ID.String(), s, ttl)

	return nil
}

func (m *MemoryStore) Get(_ context.Context, id contextx.SessionID) (Session, error) {
	value, ok := m.cache.Get(id.String())
	if !ok {
		return Session{}, ErrNotFound
	}

	s, ok := value.(Session)
	if !ok || s.Expired(m.now()) {
		return Session{}, ErrNotFound
	}

	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id contextx.SessionID) error {
	m.cache.Delete(id.String())

	return nil
}

const redisKeyPrefix = "admin_token:"

// RedisStore shares sessions between dashboard replicas.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return ErrExpired
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err = r.client.Set(ctx, redisKey(s.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}

func (r *RedisStore) Get(ctx context.Context, id contextx.SessionID) (Session, error) {
	raw, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}

	if err != nil {
		return Session{}, fmt.Errorf("redis.Get: %w", err)
	}

	var s Session
	if err = json.Unmarshal(raw, &s); err != nil {
		logger(ctx).Warn(
			"corrupt session dropped",
			slog.String(logx.FieldSessionID, id.String()),
			logx.Error(err),
		)

		return Session{}, ErrNotFound
	}

	if s.Expired(r.now()) {
		return Session{}, ErrNotFound
	}

	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id contextx.SessionID) error {
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}

	return nil
}

func redisKey(id contextx.SessionID) string {
	return redisKeyPrefix + id.String()
}
