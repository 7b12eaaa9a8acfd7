package kafka

import (
	"context"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// IEventProducer интерфейс для отправки событий трансформации в Kafka
type IEventProducer interface {
	SendTransformEvent(ctx context.Context, event domain.TransformEvent) error
	Close() error
}
