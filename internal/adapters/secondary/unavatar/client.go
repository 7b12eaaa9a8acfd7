package unavatar

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/ports/service"
)

// maxAvatarBytes ограничение на размер скачиваемого аватара
const maxAvatarBytes = 10 << 20

// Client скачивает публичную аватарку по handle
type Client struct {
	baseURL    string
	provider   string
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт резолвер
func NewClient(cfg *Config, log *slog.Logger) service.IAvatarResolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "twitter"
	}

	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		provider: provider,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

// FetchAvatar скачивает картинку. MIME берётся из Content-Type, иначе определяется по байтам
func (c *Client) FetchAvatar(ctx context.Context, key domain.IdentityKey) (*domain.Image, error) {
	if key.IsAnonymous() {
		return nil, domain.ErrNoHandle
	}

	endpoint := c.baseURL + "/" + c.provider + "/" + url.PathEscape(key.String())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Log.Debug("avatar resolver returned non-2xx status",
			"status_code", resp.StatusCode,
			"identity", key,
		)
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	if len(data) > maxAvatarBytes {
		return nil, fmt.Errorf("%w: avatar too large", domain.ErrFetchFailed)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrFetchFailed)
	}

	mimeType := ""
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if parsed, _, err := mime.ParseMediaType(ct); err == nil && strings.HasPrefix(parsed, "image/") {
			mimeType = parsed
		}
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: not an image (%s)", domain.ErrFetchFailed, mimeType)
	}

	c.Log.Debug("avatar fetched",
		"identity", key,
		"mime_type", mimeType,
		"bytes", len(data),
	)

	return &domain.Image{Data: data, MIMEType: mimeType}, nil
}
