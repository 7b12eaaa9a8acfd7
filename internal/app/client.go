package app

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/gateway"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/inmemory"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/redis"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/sqlite"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/unavatar"
	"github.com/kopachlager/xmasavatar/internal/pkg/logger"
	"github.com/kopachlager/xmasavatar/internal/ports/cache"
	usageLedgerRepo "github.com/kopachlager/xmasavatar/internal/repository/usage_ledger"
	"github.com/kopachlager/xmasavatar/internal/usecases/avatar"
	"github.com/kopachlager/xmasavatar/internal/usecases/avatar/themes"
)

// Client зависимости CLI: оркестратор поверх выбранного хранилища журнала
type Client struct {
	Name   string
	Cfg    *ClientConfig
	Log    *slog.Logger
	Store  cache.Cache
	Avatar *avatar.Service
}

func NewClient(ctx context.Context, name string, cfg *ClientConfig, opts ...avatar.Option) (*Client, error) {
	// stdout занят результатом команды
	log := logger.NewWithWriter(name, cfg.Log, os.Stderr)

	store, err := OpenLedgerStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	catalog, err := themes.Default()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load themes: %w", err)
	}

	svc := avatar.New(
		usageLedgerRepo.New(store, log),
		gateway.NewClient(cfg.Gateway, log),
		unavatar.NewClient(cfg.Resolver, log),
		catalog,
		log,
		opts...,
	)

	return &Client{
		Name:   name,
		Cfg:    cfg,
		Log:    log,
		Store:  store,
		Avatar: svc,
	}, nil
}

// Close закрывает хранилище журнала
func (c *Client) Close() error {
	return c.Store.Close()
}

// OpenLedgerStore открывает key-value хранилище журнала по cfg.Store
func OpenLedgerStore(ctx context.Context, cfg *ClientConfig, log *slog.Logger) (cache.Cache, error) {
	switch cfg.Store {
	case StoreMemory:
		log.Warn("ledger is in memory, quota resets on exit")
		return inmemory.NewKVStore(), nil

	case StoreSQLite, "":
		db, err := cfg.SQLite.Open(ctx)
		if err != nil {
			return nil, err
		}
		return sqlite.NewKVStore(db), nil

	case StoreRedis:
		rdb, err := cfg.Redis.NewConnection(ctx)
		if err != nil {
			return nil, err
		}
		log.Info("redis ledger connected successfully")
		return redisAdapter.NewClient(rdb, cfg.Redis.Prefix()), nil

	case StorePostgres:
		db, err := cfg.Postgres.NewConnection()
		if err != nil {
			return nil, err
		}
		log.Info("postgres connected successfully")

		if err := pg.RunMigrations(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return pg.NewKVStore(pg.NewDB(db)), nil

	default:
		return nil, fmt.Errorf("unknown ledger store %q", cfg.Store)
	}
}
