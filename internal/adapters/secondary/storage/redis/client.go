package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kopachlager/xmasavatar/internal/ports/cache"
	"github.com/redis/go-redis/v9"
)

// Client обёртка над redis.Client для общего журнала генераций
// Реализует интерфейс cache.Cache
type Client struct {
	client *redis.Client
	prefix string
}

// NewClient создаёт новый Redis-клиент, все ключи получают префикс
func NewClient(client *redis.Client, prefix string) cache.Cache {
	return &Client{
		client: client,
		prefix: prefix,
	}
}

func (c *Client) key(key string) string {
	return c.prefix + key
}

// Get получает значение по ключу
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redis get %s: %w", key, cache.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// Set устанавливает значение с TTL (0 - без срока)
func (c *Client) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close закрывает подключение к Redis
func (c *Client) Close() error {
	return c.client.Close()
}
