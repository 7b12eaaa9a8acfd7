package transform

import (
	"log/slog"
	"os"
	"time"

	"github.com/kopachlager/xmasavatar/internal/ports/kafka"
	"github.com/kopachlager/xmasavatar/internal/ports/service"
	"github.com/kopachlager/xmasavatar/internal/ports/storage"
)

// DefaultCredentialEnv имя переменной окружения с ключом модели
const DefaultCredentialEnv = "API_KEY"

// Service бизнес-логика шлюза трансформации. Не хранит состояния между запросами
type Service struct {
	Model   service.IImageModel
	Alerter service.IAlerterService
	Archive storage.IS3Client    // nil = архив выключен
	Events  kafka.IEventProducer // nil = события выключены
	Log     *slog.Logger

	credentialEnv string
	lookupEnv     func(string) (string, bool)
	now           func() time.Time
}

type Option func(*Service)

// WithArchive включает архивирование результатов
func WithArchive(archive storage.IS3Client) Option {
	return func(s *Service) {
		s.Archive = archive
	}
}

// WithEvents включает публикацию событий
func WithEvents(events kafka.IEventProducer) Option {
	return func(s *Service) {
		s.Events = events
	}
}

// WithCredentialEnv меняет имя переменной с ключом
func WithCredentialEnv(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.credentialEnv = name
		}
	}
}

// WithLookupEnv подменяет чтение окружения (для тестов)
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(s *Service) {
		s.lookupEnv = lookup
	}
}

// WithClock подменяет часы
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New создаёт сервис трансформации
func New(model service.IImageModel, alerter service.IAlerterService, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		Model:         model,
		Alerter:       alerter,
		Log:           log,
		credentialEnv: DefaultCredentialEnv,
		lookupEnv:     os.LookupEnv,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
