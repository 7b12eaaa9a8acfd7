package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kopachlager/xmasavatar/internal/ports/cache"
	"github.com/kopachlager/xmasavatar/internal/ports/persistence"
)

type kvColumns struct {
	TableName string
	Key       string
	Value     string
	ExpiresAt string
	UpdatedAt string
}

// KVStore key-value хранилище в таблице kv_store, реализует cache.Cache
type KVStore struct {
	db      persistence.Persistence
	columns kvColumns
}

// NewKVStore создаёт хранилище поверх Postgres
func NewKVStore(db persistence.Persistence) cache.Cache {
	return &KVStore{
		db: db,
		columns: kvColumns{
			TableName: "kv_store",
			Key:       "key",
			Value:     "value",
			ExpiresAt: "expires_at",
			UpdatedAt: "updated_at",
		},
	}
}

// Get получает значение, истёкшие записи считаются отсутствующими
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var value string

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND (%s IS NULL OR %s > NOW())`,
		s.columns.Value,
		s.columns.TableName,
		s.columns.Key,
		s.columns.ExpiresAt,
		s.columns.ExpiresAt)
	err := s.db.Get(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("pg get %s: %w", key, cache.ErrNotFound)
		}
		return "", fmt.Errorf("pg get failed: %w", err)
	}
	return value, nil
}

// Set сохраняет значение (upsert), ttl <= 0 - без срока
func (s *KVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	query := fmt.Sprintf(`INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s, %[5]s = NOW()`,
		s.columns.TableName,
		s.columns.Key,
		s.columns.Value,
		s.columns.ExpiresAt,
		s.columns.UpdatedAt)
	if err := s.db.Exec(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("pg set failed: %w", err)
	}
	return nil
}

// Close закрывает подключение к базе данных
func (s *KVStore) Close() error {
	return s.db.Close()
}
