package usageLedgerRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/ports/cache"
	ports "github.com/kopachlager/xmasavatar/internal/ports/repository"
)

// Repository журнал генераций поверх key-value хранилища.
// Read-modify-write без блокировок: при гонке побеждает последняя запись,
// лимит мягкий и не является границей безопасности.
type Repository struct {
	store cache.Cache
	Log   *slog.Logger
	key   string
	now   func() time.Time
}

type Option func(*Repository)

// WithClock подменяет часы (для тестов окна)
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithStorageKey меняет ключ хранилища
func WithStorageKey(key string) Option {
	return func(r *Repository) {
		r.key = key
	}
}

// New создаёт журнал генераций
func New(store cache.Cache, log *slog.Logger, opts ...Option) ports.IUsageLedgerRepo {
	r := &Repository{
		store: store,
		Log:   log,
		key:   domain.UsageLogKey,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Remaining возвращает остаток квоты для ключа, никогда не меньше нуля
func (r *Repository) Remaining(ctx context.Context, key domain.IdentityKey) int {
	return r.Usage(ctx, key).Remaining
}

// Usage возвращает снимок квоты и лениво чистит истёкшие записи ключа
func (r *Repository) Usage(ctx context.Context, key domain.IdentityKey) domain.UsageSnapshot {
	now := r.now()
	log := r.load(ctx)

	active := log.Active(key, now)
	if len(active) != len(log[key]) {
		r.prune(ctx, log, key, active)
	}

	return domain.NewUsageSnapshot(key, active)
}

// Record добавляет текущий таймстемп, чистит истёкшие и сохраняет журнал
func (r *Repository) Record(ctx context.Context, key domain.IdentityKey) error {
	now := r.now()
	log := r.load(ctx)

	log[key] = append(log[key], now.UnixMilli())
	log[key] = log.Active(key, now)

	if err := r.save(ctx, log); err != nil {
		r.Log.Error("failed to record generation",
			"error", err,
			"identity", key)
		return fmt.Errorf("failed to record generation: %w", err)
	}

	r.Log.Debug("generation recorded",
		"identity", key,
		"active", len(log[key]))
	return nil
}

// prune переписывает ключ без истёкших записей. Ошибка записи не критична
func (r *Repository) prune(ctx context.Context, log domain.UsageLog, key domain.IdentityKey, active []int64) {
	if len(active) == 0 {
		delete(log, key)
	} else {
		log[key] = active
	}

	if err := r.save(ctx, log); err != nil {
		r.Log.Warn("failed to prune usage log",
			"error", err,
			"identity", key)
	}
}

// load читает журнал. Отсутствие, ошибка хранилища или битый JSON дают пустой журнал
func (r *Repository) load(ctx context.Context) domain.UsageLog {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			r.Log.Warn("failed to read usage log, treating as empty", "error", err)
		}
		return domain.UsageLog{}
	}

	log := domain.UsageLog{}
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		r.Log.Warn("usage log is corrupt, treating as empty", "error", err)
		return domain.UsageLog{}
	}
	if log == nil {
		return domain.UsageLog{}
	}

	return log
}

func (r *Repository) save(ctx context.Context, log domain.UsageLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal usage log: %w", err)
	}

	return r.store.Set(ctx, r.key, string(data), 0)
}
