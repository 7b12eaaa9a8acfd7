package avatar

import (
	"context"
	"time"
)

// DefaultRotationInterval период смены сообщения ожидания
const DefaultRotationInterval = 3 * time.Second

// Rotator декоративная задача на время генерации. Run блокируется до отмены ctx
type Rotator interface {
	Run(ctx context.Context)
}

// NoopRotator ничего не делает. Подходит для тестов и неинтерактивного режима
type NoopRotator struct{}

func (NoopRotator) Run(ctx context.Context) {
	<-ctx.Done()
}

// TickerRotator циклически отдаёт сообщения в OnMessage, начиная с первого сразу
type TickerRotator struct {
	Messages  []string
	Interval  time.Duration
	OnMessage func(message string)
}

func (r *TickerRotator) Run(ctx context.Context) {
	if len(r.Messages) == 0 || r.OnMessage == nil {
		<-ctx.Done()
		return
	}

	interval := r.Interval
	if interval <= 0 {
		interval = DefaultRotationInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	r.OnMessage(r.Messages[i])
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i = (i + 1) % len(r.Messages)
			r.OnMessage(r.Messages[i])
		}
	}
}
