package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransformRequest запрос к шлюзу трансформации
type TransformRequest struct {
	Image  string `json:"image"`  // data URI или base64
	Prompt string `json:"prompt"` // описание стиля, может быть пустым
}

// TransformResult результат трансформации
type TransformResult struct {
	Image      *Image
	ArchiveKey string // пусто, если архив не настроен или не удался
}

// ContentPart часть ответа модели: текст или inline картинка
type ContentPart struct {
	Text     string
	Data     []byte
	MIMEType string
}

// HasImage проверяет, содержит ли часть байты картинки
func (p ContentPart) HasImage() bool {
	return len(p.Data) > 0
}

type TransformOutcome string

const (
	TransformCompleted TransformOutcome = "transform.completed"
	TransformFailed    TransformOutcome = "transform.failed"
)

// TransformEvent событие для аналитики, публикуется в Kafka
type TransformEvent struct {
	RequestID    uuid.UUID        `json:"request_id"`
	Outcome      TransformOutcome `json:"outcome"`
	PromptLength int              `json:"prompt_length"`
	InputBytes   int              `json:"input_bytes"`
	OutputBytes  int              `json:"output_bytes,omitempty"`
	ArchiveKey   string           `json:"archive_key,omitempty"`
	Error        string           `json:"error,omitempty"`
	DurationMs   int64            `json:"duration_ms"`
	CreatedAt    time.Time        `json:"created_at"`
}
