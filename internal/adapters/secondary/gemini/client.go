package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"google.golang.org/genai"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/ports/service"
)

// Client адаптер к Gemini. SDK клиент создаётся на каждый запрос,
// потому что ключ может смениться без рестарта
type Client struct {
	cfg        *Config
	httpClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт адаптер модели
func NewClient(cfg *Config, log *slog.Logger) service.IImageModel {
	var timeout time.Duration
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		Log:        log,
	}
}

// EditImage отправляет картинку и инструкцию одной пользовательской репликой
// и возвращает части первого кандидата как есть
func (c *Client) EditImage(ctx context.Context, apiKey string, image []byte, mimeType string, instruction string) ([]domain.ContentPart, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}

	model := c.cfg.ModelName()
	start := time.Now()

	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		c.Log.Debug("genai generate failed",
			"error", err,
			"model", model,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("genai generate failed [model=%s]: %w", model, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		c.Log.Debug("genai returned no candidates", "model", model)
		return nil, nil
	}

	parts := make([]domain.ContentPart, 0, len(resp.Candidates[0].Content.Parts))
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		part := domain.ContentPart{Text: p.Text}
		if p.InlineData != nil {
			part.Data = p.InlineData.Data
			part.MIMEType = p.InlineData.MIMEType
		}
		parts = append(parts, part)
	}

	c.Log.Debug("genai generate completed",
		"model", model,
		"parts", len(parts),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return parts, nil
}
