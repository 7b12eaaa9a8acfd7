package alerter

// Config алерты оператору в Telegram. Без токена алерты выключены
type Config struct {
	BotToken        string `envconfig:"BOT_TOKEN"`
	ChatID          int64  `envconfig:"CHAT_ID"`
	MessageThreadID *int64 `envconfig:"MESSAGE_THREAD_ID"`
	BaseURL         string `envconfig:"BASE_URL" default:"https://api.telegram.org"`
}

// Enabled проверяет, заданы ли токен и чат
func (c *Config) Enabled() bool {
	return c != nil && c.BotToken != "" && c.ChatID != 0
}
