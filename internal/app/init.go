package app

import (
	"context"
	"net/http"

	server "github.com/kopachlager/xmasavatar/internal/adapters/primary/http"
	alerterController "github.com/kopachlager/xmasavatar/internal/adapters/primary/http/controllers/alerter"
	healthcheckController "github.com/kopachlager/xmasavatar/internal/adapters/primary/http/controllers/healthcheck"
	transformController "github.com/kopachlager/xmasavatar/internal/adapters/primary/http/controllers/transform"
	alerterAdapter "github.com/kopachlager/xmasavatar/internal/adapters/secondary/alerter"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/gemini"
	kafkaAdapter "github.com/kopachlager/xmasavatar/internal/adapters/secondary/kafka"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/s3"
	"github.com/kopachlager/xmasavatar/internal/ports/kafka"
	"github.com/kopachlager/xmasavatar/internal/ports/service"
	"github.com/kopachlager/xmasavatar/internal/ports/storage"
	alerterService "github.com/kopachlager/xmasavatar/internal/services/alerter"
	"github.com/kopachlager/xmasavatar/internal/usecases/transform"
)

type Dependencies struct {
	HTTPServer *http.Server
	Events     kafka.IEventProducer
}

// initDependencies собирает шлюз. Архив, события и алерты опциональны:
// если их не удалось поднять, шлюз работает без них
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	alerter := alerterService.New(alerterAdapter.NewClient(a.Cfg.Alerter, a.Log), a.Log)
	health := healthcheckController.New(a.Log)

	opts := []transform.Option{transform.WithCredentialEnv(a.Cfg.CredentialEnv)}

	archive := a.initArchive(ctx)
	if archive != nil {
		opts = append(opts, transform.WithArchive(archive))
		health.AddCheck("archive", archive.Ping)
	}

	events := a.initEvents()
	if events != nil {
		opts = append(opts, transform.WithEvents(events))
	}

	transformService := transform.New(gemini.NewClient(a.Cfg.GenAI, a.Log), alerter, a.Log, opts...)

	return &Dependencies{
		HTTPServer: a.initHTTP(transformService, alerter, health),
		Events:     events,
	}, nil
}

// initArchive поднимает архив результатов в S3 (опционально)
func (a *App) initArchive(ctx context.Context) storage.IS3Client {
	if !a.Cfg.Archive.Enabled() {
		a.Log.Info("avatar archive disabled")
		return nil
	}

	client, err := a.Cfg.Archive.NewClient(ctx)
	if err != nil {
		a.Log.Warn("failed to init avatar archive, continuing without it", "error", err)
		return nil
	}

	a.Log.Info("avatar archive connected", "bucket", a.Cfg.Archive.Bucket)
	return s3.NewClient(client, a.Cfg.Archive.Bucket, a.Log)
}

// initEvents поднимает Kafka producer событий (опционально)
func (a *App) initEvents() kafka.IEventProducer {
	if !a.Cfg.Kafka.Enabled() {
		a.Log.Info("transform events disabled")
		return nil
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer, continuing without events", "error", err)
		return nil
	}

	return producer
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(
	transformService *transform.Service,
	alerter service.IAlerterService,
	health *healthcheckController.HealthCheckController,
) *http.Server {
	controllers := []server.Controller{
		health,
		transformController.New(transformService, a.Log),
		alerterController.New(alerter, a.Cfg.WebhookToken, a.Log),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}
