package gateway

import "time"

// Config адрес шлюза трансформации
type Config struct {
	BaseURL string        `envconfig:"URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"120s"`
}
