package unavatar

import "time"

// Config публичный резолвер аватаров
type Config struct {
	BaseURL  string        `envconfig:"URL" default:"https://unavatar.io"`
	Provider string        `envconfig:"PROVIDER" default:"twitter"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"15s"`
}
