// Package memory keeps handed-off carts in process memory.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type entry struct {
	data    []byte
	expires time.Time
}

type HandoffStore struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewHandoffStore() *HandoffStore {
	return &HandoffStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *HandoffStore) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{data: slices.Clone(data)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

func (s *HandoffStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok || (!e.expires.IsZero() && !s.now().Before(e.expires)) {
		return nil, checkoutapp.ErrNoHandoff
	}
	return slices.Clone(e.data), nil
}

func (s *HandoffStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
