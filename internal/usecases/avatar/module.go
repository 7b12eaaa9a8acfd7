package avatar

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/ports/repository"
	"github.com/kopachlager/xmasavatar/internal/ports/service"
	"github.com/kopachlager/xmasavatar/internal/usecases/avatar/themes"
)

// Тексты, которые видит пользователь
const (
	MsgNoHandle       = "Enter a handle first"
	MsgNoSourceImage  = "Upload a photo first"
	MsgNotAnImage     = "That file does not look like an image"
	MsgUnknownTheme   = "That style is not in the catalog"
	MsgFetchFailed    = "Profile lost in the blizzard. Try uploading manually."
	MsgQuotaExhausted = "Santa's workshop is full for @%s! Try again in 24 hours."
	MsgGatewayBusy    = "The North Pole server is busy. Try again soon."
)

type noopCelebrator struct{}

func (noopCelebrator) Celebrate(context.Context) {}

// Service оркестратор одной сессии генерации.
// Все переходы состояния под мьютексом, сетевые вызовы идут без него
type Service struct {
	Ledger      repository.IUsageLedgerRepo
	Transformer service.ITransformService
	Resolver    service.IAvatarResolver
	Celebrator  service.ICelebrator
	Rotator     Rotator
	Catalog     *themes.Catalog
	Log         *slog.Logger

	mu      sync.Mutex
	session domain.Session
}

type Option func(*Service)

// WithCelebrator задаёт эффект после успешной генерации
func WithCelebrator(c service.ICelebrator) Option {
	return func(s *Service) {
		s.Celebrator = c
	}
}

// WithRotator задаёт ротацию сообщений ожидания
func WithRotator(r Rotator) Option {
	return func(s *Service) {
		s.Rotator = r
	}
}

// New создаёт оркестратор с пустой сессией
func New(
	ledger repository.IUsageLedgerRepo,
	transformer service.ITransformService,
	resolver service.IAvatarResolver,
	catalog *themes.Catalog,
	log *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		Ledger:      ledger,
		Transformer: transformer,
		Resolver:    resolver,
		Celebrator:  noopCelebrator{},
		Rotator:     NoopRotator{},
		Catalog:     catalog,
		Log:         log,
		session:     domain.NewSession(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
