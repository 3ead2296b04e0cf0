// ABOUTME: Session token store abstraction with get/set/clear operations
// ABOUTME: Callers check expiry on the loaded session before using it

package tokenstore

import (
	"context"
	"errors"
	"sync"

	"github.com/storeops/catalog-console/models"
)

// ErrNoSession is returned by Load when nothing is stored.
var ErrNoSession = errors.New("no session stored")

// Store persists the client session token between requests.
type Store interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	session models.Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Empty() {
		return models.Session{}, ErrNoSession
	}
	return m.session, nil
}

func (m *MemoryStore) Save(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = models.Session{}
	return nil
}
