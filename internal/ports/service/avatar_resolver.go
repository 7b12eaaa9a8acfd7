package service

import (
	"context"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// IAvatarResolver находит аватар по handle
type IAvatarResolver interface {
	FetchAvatar(ctx context.Context, key domain.IdentityKey) (*domain.Image, error)
}
