package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/kopachlager/xmasavatar/internal/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time // нулевое значение - без срока
}

// KVStore in-memory реализация key-value хранилища
type KVStore struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

// NewKVStore создаёт новое in-memory хранилище
func NewKVStore() *KVStore {
	return &KVStore{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

var _ cache.Cache = (*KVStore)(nil)

// Get получает значение по ключу
func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok {
		return "", cache.ErrNotFound
	}
	if !item.expiresAt.IsZero() && !s.now().Before(item.expiresAt) {
		return "", cache.ErrNotFound
	}
	return item.value, nil
}

// Set сохраняет значение, ttl <= 0 - без срока
func (s *KVStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.items[key] = item
	return nil
}

// Close ничего не делает
func (s *KVStore) Close() error {
	return nil
}
