package service

import (
	"context"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// ITransformService клиентская сторона шлюза трансформации
type ITransformService interface {
	Transform(ctx context.Context, image *domain.Image, prompt string) (*domain.Image, error)
}

// ICelebrator декоративный эффект после успешной генерации
type ICelebrator interface {
	Celebrate(ctx context.Context)
}
