// ABOUTME: Per-session view state storage
// ABOUTME: Keys views by a digest of the session token with memory and redis drivers

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/storeops/catalog-console/cache"
	"github.com/storeops/catalog-console/config"
	"github.com/storeops/catalog-console/models"
)

// ErrViewNotFound is returned when no view is stored for a key
var ErrViewNotFound = errors.New("view not found")

// ViewStore holds the console view for each live session.
type ViewStore interface {
	Get(ctx context.Context, key string) (*models.View, error)
	Put(ctx context.Context, key string, view *models.View, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ViewKey derives the storage key for a session token.
func ViewKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewViewStore creates the driver selected by cfg.ViewStore
func NewViewStore(ctx context.Context, cfg *config.Config) (ViewStore, error) {
	switch cfg.ViewStore {
	case "", config.ViewStoreMemory:
		return NewMemoryViewStore(), nil
	case config.ViewStoreRedis:
		return NewRedisViewStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown view store %q", cfg.ViewStore)
	}
}

// MemoryViewStore keeps views in the process TTL cache
type MemoryViewStore struct {
	cache *cache.Cache
}

func NewMemoryViewStore() *MemoryViewStore {
	return &MemoryViewStore{cache: cache.New(time.Minute)}
}

func (m *MemoryViewStore) Get(_ context.Context, key string) (*models.View, error) {
	val, ok := m.cache.Get(viewKey(key))
	if !ok {
		return nil, ErrViewNotFound
	}
	view, ok := val.(*models.View)
	if !ok {
		return nil, errors.New("invalid view data")
	}
	return view.Clone(), nil
}

func (m *MemoryViewStore) Put(_ context.Context, key string, view *models.View, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("invalid view ttl %s", ttl)
	}
	m.cache.Set(viewKey(key), view.Clone(), ttl)
	return nil
}

func (m *MemoryViewStore) Delete(_ context.Context, key string) error {
	m.cache.Clear(viewKey(key))
	return nil
}

func (m *MemoryViewStore) Close() error {
	m.cache.Close()
	return nil
}

func viewKey(key string) string {
	return "view:" + key
}
