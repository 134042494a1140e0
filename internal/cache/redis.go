package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"evac-backend/internal/config"
	"evac-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const searchKey = "evacuees:search"

// RedisStore is the Store backing for multi-replica deployments. A nil
// client degrades every call to a miss so the service keeps working when
// Redis is down.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore dials Redis and returns nil if the ping fails; callers fall
// back to the in-memory store.
func NewRedisStore(cfg *config.Config, ttl time.Duration) *RedisStore {
	if cfg.Redis.Host == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context) ([]models.EvacueeSearchRow, bool) {
	if s == nil || s.client == nil {
		return nil, false
	}
	data, err := s.client.Get(ctx, searchKey).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []models.EvacueeSearchRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (s *RedisStore) Set(ctx context.Context, rows []models.EvacueeSearchRow) {
	if s == nil || s.client == nil {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	s.client.Set(ctx, searchKey, data, s.ttl)
}

func (s *RedisStore) Invalidate(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}
	s.client.Del(ctx, searchKey)
}

// IsHealthy returns true if the Redis connection is working
func (s *RedisStore) IsHealthy() bool {
	if s == nil || s.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}
