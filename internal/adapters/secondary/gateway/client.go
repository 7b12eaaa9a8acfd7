package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/ports/service"
)

const TransformEndpoint = "transform"

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

type transformResponse struct {
	Image string `json:"image"`
	Error string `json:"error"`
}

// Client клиент шлюза трансформации
type Client struct {
	baseURL    string
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт клиент шлюза
func NewClient(cfg *Config, log *slog.Logger) service.ITransformService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

// Transform отправляет картинку и описание стиля, возвращает готовый аватар.
// Ответ не 2xx превращается в *domain.GatewayError с сообщением сервера
func (c *Client) Transform(ctx context.Context, image *domain.Image, prompt string) (*domain.Image, error) {
	if image.IsEmpty() {
		return nil, domain.ErrNoSourceImage
	}

	jsonData, err := json.Marshal(domain.TransformRequest{
		Image:  image.DataURI(),
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/" + TransformEndpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var parsed transformResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Log.Debug("gateway returned non-2xx status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), 200),
		)
		message := parsed.Error
		if decodeErr != nil || message == "" {
			message = fmt.Sprintf("Server responded with %d", resp.StatusCode)
		}
		return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("gateway unmarshal failed [status=%d]: %w", resp.StatusCode, decodeErr)
	}

	result, err := domain.ParseDataURI(parsed.Image)
	if err != nil {
		return nil, fmt.Errorf("gateway returned unusable image: %w", err)
	}

	return result, nil
}
