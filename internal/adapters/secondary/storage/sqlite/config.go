package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER NULL,
	updated_at INTEGER NOT NULL
)`

// Config локальный файл журнала (аналог localStorage браузера)
type Config struct {
	Path string `envconfig:"PATH"` // пусто - ~/.xmas-avatar/ledger.db
}

// ResolvePath возвращает путь к файлу базы
func (c *Config) ResolvePath() (string, error) {
	if c != nil && c.Path != "" {
		return c.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, ".xmas-avatar", "ledger.db"), nil
}

// Open открывает (или создаёт) файл базы и схему
func (c *Config) Open(ctx context.Context) (*sqlx.DB, error) {
	path, err := c.ResolvePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger dir: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}

	return db, nil
}
