package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultIOTimeout    = 3 * time.Second
	defaultPoolSize     = 4
	defaultKeyPrefix    = "xmas:"
	defaultPingDeadline = 5 * time.Second
)

// Config подключение к общему Redis для журнала генераций
type Config struct {
	Host        string        `envconfig:"HOST" default:"localhost"`
	Port        string        `envconfig:"PORT" default:"6379"`
	Username    string        `envconfig:"USERNAME"`
	Password    string        `envconfig:"PASSWORD"`
	Database    int           `envconfig:"DATABASE" default:"0"`
	DialTimeout time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	IOTimeout   time.Duration `envconfig:"IO_TIMEOUT" default:"3s"`
	PoolSize    int           `envconfig:"POOL_SIZE" default:"4"`
	KeyPrefix   string        `envconfig:"KEY_PREFIX" default:"xmas:"`
}

// Prefix возвращает префикс ключей
func (c *Config) Prefix() string {
	if c.KeyPrefix == "" {
		return defaultKeyPrefix
	}
	return c.KeyPrefix
}

// NewConnection создаёт новое подключение к Redis и проверяет его пингом
func (c *Config) NewConnection(ctx context.Context) (*redis.Client, error) {
	dialTimeout := c.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	ioTimeout := c.IOTimeout
	if ioTimeout <= 0 {
		ioTimeout = defaultIOTimeout
	}

	poolSize := c.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(c.Host, c.Port),
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.Database,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		PoolSize:     poolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingDeadline)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}
