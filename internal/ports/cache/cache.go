package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound ключ отсутствует в хранилище
var ErrNotFound = errors.New("key not found")

// Cache интерфейс key-value хранилища. ttl <= 0 означает хранение без срока
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Close() error
}
