package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopachlager/xmasavatar/internal/ports/cache"
)

func newTestStore(t *testing.T) (cache.Cache, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return NewKVStore(NewDB(sqlx.NewDb(db, "pgx"))), mock
}

func TestKVStore_GetMissing(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \$1`).
		WithArgs("xmas_usage_log").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := store.Get(context.Background(), "xmas_usage_log")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestKVStore_Get(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \$1`).
		WithArgs("xmas_usage_log").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"alice":[1]}`))

	got, err := store.Get(context.Background(), "xmas_usage_log")
	require.NoError(t, err)
	assert.Equal(t, `{"alice":[1]}`, got)
}

func TestKVStore_GetFailure(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectQuery(`SELECT value FROM kv_store`).
		WillReturnError(errors.New("connection reset"))

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrNotFound)
}

func TestKVStore_Set(t *testing.T) {
	ctx := context.Background()
	store, mock := newTestStore(t)

	mock.ExpectExec(`(?s)INSERT INTO kv_store .* ON CONFLICT \(key\) DO UPDATE`).
		WithArgs("k", "v", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Set(ctx, "k", "v", 0))

	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("k", "v", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Set(ctx, "k", "v", time.Hour))

	mock.ExpectClose()
	require.NoError(t, store.Close())
}
