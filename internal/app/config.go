package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	server "github.com/kopachlager/xmasavatar/internal/adapters/primary/http"
	alerterAdapter "github.com/kopachlager/xmasavatar/internal/adapters/secondary/alerter"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/gateway"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/gemini"
	kafkaAdapter "github.com/kopachlager/xmasavatar/internal/adapters/secondary/kafka"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/redis"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/s3"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/sqlite"
	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/unavatar"
	"github.com/kopachlager/xmasavatar/internal/pkg/logger"
)

// envFiles локальные .env, существующие переменные окружения не перезаписываются
var envFiles = []string{".env", "deployments/local/.env"}

// GatewayConfig конфигурация шлюза трансформации
type GatewayConfig struct {
	Log           *logger.Config         `envconfig:"LOG"`
	Server        *server.Config         `envconfig:"APISERVER"`
	GenAI         *gemini.Config         `envconfig:"GENAI"`
	CredentialEnv string                 `envconfig:"CREDENTIAL_ENV" default:"API_KEY"` // имя переменной с ключом модели
	Archive       *s3.Config             `envconfig:"S3"`
	Kafka         *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter       *alerterAdapter.Config `envconfig:"ALERTER"`
	WebhookToken  string                 `envconfig:"WEBHOOK_TOKEN"` // пусто - /webhooks/alert выключен
}

// Хранилища журнала генераций
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// ClientConfig конфигурация CLI и терминального UI
type ClientConfig struct {
	Log      *logger.Config       `envconfig:"LOG"`
	Store    string               `envconfig:"STORE" default:"sqlite"`
	SQLite   *sqlite.Config       `envconfig:"SQLITE"`
	Redis    *redisAdapter.Config `envconfig:"REDIS"`
	Postgres *pg.Config           `envconfig:"POSTGRES"`
	Gateway  *gateway.Config      `envconfig:"GATEWAY"`
	Resolver *unavatar.Config     `envconfig:"RESOLVER"`
}

func NewGatewayConfig(envPrefix string) (*GatewayConfig, error) {
	cfg := &GatewayConfig{}

	_ = godotenv.Load(existing(envFiles)...)

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load gateway config: %w", err)
	}

	return cfg, nil
}

func NewClientConfig(envPrefix string) (*ClientConfig, error) {
	cfg := &ClientConfig{}

	_ = godotenv.Load(existing(envFiles)...)

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load client config: %w", err)
	}

	// CLI по умолчанию молчит, stdout и stderr нужны пользователю
	if _, ok := os.LookupEnv(envPrefix + "_LOG_LEVEL"); !ok {
		cfg.Log.Level = "warn"
	}

	switch cfg.Store {
	case StoreMemory, StoreSQLite, StoreRedis, StorePostgres:
	default:
		return nil, fmt.Errorf("unknown ledger store %q", cfg.Store)
	}

	return cfg, nil
}

// existing оставляет только существующие файлы, godotenv.Load падает на первом отсутствующем
func existing(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}
