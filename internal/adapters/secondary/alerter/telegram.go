package alerter

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
)

const apiTimeout = 10 * time.Second

// Client клиент для отправки алертов через Telegram Bot API
type Client struct {
	httpClient      *http.Client
	baseURL         string
	chatID          int64
	messageThreadID *int64
	log             *slog.Logger
}

// sendMessageRequest запрос sendMessage
type sendMessageRequest struct {
	ChatID          int64  `json:"chat_id"`
	Text            string `json:"text"`
	MessageThreadID *int64 `json:"message_thread_id,omitempty"`
}

// apiResponse базовый ответ Telegram API
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// NewClient создаёт клиент алертов. Возвращает nil, если алерты не настроены
func NewClient(cfg *Config, log *slog.Logger) *Client {
	if !cfg.Enabled() {
		return nil
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/") + "/bot" + cfg.BotToken,
		chatID:          cfg.ChatID,
		messageThreadID: cfg.MessageThreadID,
		log:             log,
	}
}

// SendAlert отправляет алерт в Telegram группу (или топик форума)
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	if err := c.sendMessage(ctx, sendMessageRequest{
		ChatID:          c.chatID,
		Text:            message,
		MessageThreadID: c.messageThreadID,
	}); err != nil {
		c.log.Warn("failed to send alert",
			"error", err,
			"chat_id", c.chatID,
			"message_thread_id", c.messageThreadID,
		)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	c.log.Debug("alert sent successfully",
		"chat_id", c.chatID,
		"message_thread_id", c.messageThreadID,
	)

	return nil
}

func (c *Client) sendMessage(ctx context.Context, req sendMessageRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sendMessage", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to telegram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("failed to unmarshal response [status=%d]: %w", resp.StatusCode, err)
	}

	if !apiResp.OK {
		return fmt.Errorf("telegram API error [code=%d]: %s", apiResp.ErrorCode, apiResp.Description)
	}

	return nil
}
