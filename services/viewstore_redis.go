// ABOUTME: Redis driver for the view store
// ABOUTME: Stores JSON-encoded views with a TTL matching the session lifetime

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storeops/catalog-console/models"
)

const defaultRedisPrefix = "catalog-console:view:"

// RedisOptions configures the redis view store
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type RedisViewStore struct {
	client *redis.Client
	prefix string
}

// NewRedisViewStore connects to redis and verifies the connection.
func NewRedisViewStore(ctx context.Context, opts RedisOptions) (*RedisViewStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisViewStore{client: client, prefix: prefix}, nil
}

func (s *RedisViewStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisViewStore) Get(ctx context.Context, key string) (*models.View, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrViewNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var view models.View
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("decode view: %w", err)
	}
	if view.Products == nil {
		view.Products = []models.Product{}
	}
	return &view, nil
}

func (s *RedisViewStore) Put(ctx context.Context, key string, view *models.View, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("invalid view ttl %s", ttl)
	}
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisViewStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisViewStore) Close() error {
	return s.client.Close()
}
