package service

import (
	"context"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// IImageModel внешняя генеративная модель. Ключ передаётся на каждый запрос
type IImageModel interface {
	EditImage(ctx context.Context, apiKey string, image []byte, mimeType string, instruction string) ([]domain.ContentPart, error)
}
