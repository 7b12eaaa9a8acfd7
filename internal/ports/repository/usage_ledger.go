package repository

import (
	"context"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// IUsageLedgerRepo интерфейс журнала генераций (квота по ключу)
type IUsageLedgerRepo interface {
	Remaining(ctx context.Context, key domain.IdentityKey) int
	Usage(ctx context.Context, key domain.IdentityKey) domain.UsageSnapshot
	Record(ctx context.Context, key domain.IdentityKey) error
}
