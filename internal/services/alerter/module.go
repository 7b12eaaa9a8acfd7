package alerter

import (
	"context"

	"log/slog"

	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/alerter"
	"github.com/kopachlager/xmasavatar/internal/ports/service"
)

// Service реализует IAlerterService. Без клиента алерты только пишутся в лог
type Service struct {
	client *alerter.Client
	log    *slog.Logger
}

// New создаёт новый сервис для отправки алертов
func New(client *alerter.Client, log *slog.Logger) service.IAlerterService {
	return &Service{
		client: client,
		log:    log,
	}
}

// SendAlert отправляет алерт
func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		s.log.Warn("alert not delivered, alerter is not configured", "alert", message)
		return nil
	}

	return s.client.SendAlert(ctx, message)
}
