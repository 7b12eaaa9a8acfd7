package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kopachlager/xmasavatar/internal/ports/cache"
)

// KVStore долговременное локальное key-value хранилище на sqlite
type KVStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewKVStore создаёт хранилище поверх открытой базы
func NewKVStore(db *sqlx.DB) cache.Cache {
	return &KVStore{
		db:  db,
		now: time.Now,
	}
}

// Get получает значение, истёкшие записи считаются отсутствующими
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM kv_store WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, s.now().UnixMilli())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("sqlite get %s: %w", key, cache.ErrNotFound)
		}
		return "", fmt.Errorf("sqlite get failed: %w", err)
	}
	return value, nil
}

// Set сохраняет значение (upsert), ttl <= 0 - без срока
func (s *KVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	now := s.now()

	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(ttl).UnixMilli(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, expires_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		key, value, expiresAt, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite set failed: %w", err)
	}
	return nil
}

// Close закрывает файл базы
func (s *KVStore) Close() error {
	return s.db.Close()
}
