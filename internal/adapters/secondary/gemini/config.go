package gemini

import "time"

const defaultModel = "gemini-2.5-flash-image"

// Config генеративная модель для редактирования картинок.
// Ключ здесь не хранится: шлюз читает его из окружения на каждый запрос
type Config struct {
	Model   string        `envconfig:"MODEL" default:"gemini-2.5-flash-image"`
	BaseURL string        `envconfig:"BASE_URL"` // пусто = публичный Gemini API
	Timeout time.Duration `envconfig:"TIMEOUT"`  // 0 - без своего таймаута, запрос ограничен WriteTimeout сервера
}

// ModelName возвращает модель с учётом дефолта
func (c *Config) ModelName() string {
	if c == nil || c.Model == "" {
		return defaultModel
	}
	return c.Model
}
