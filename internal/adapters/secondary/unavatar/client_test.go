package unavatar

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// pngHeader минимальная сигнатура PNG для DetectContentType
var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&Config{BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil))).(*Client)
}

func TestFetchAvatar(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/twitter/alice", r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	})

	img, err := c.FetchAvatar(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, []byte("jpeg-bytes"), img.Data)
}

func TestFetchAvatar_SniffsMIME(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngHeader)
	})

	img, err := c.FetchAvatar(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.MIMETypePNG, img.MIMEType)
}

func TestFetchAvatar_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"empty body": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		"not an image": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>blizzard</html>"))
		},
		"too large": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(bytes.Repeat([]byte{0x89}, maxAvatarBytes+1024))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, handler)
			img, err := c.FetchAvatar(context.Background(), "carol")
			assert.ErrorIs(t, err, domain.ErrFetchFailed)
			assert.Nil(t, img)
		})
	}
}

func TestFetchAvatar_Anonymous(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("resolver must not be called")
	})

	_, err := c.FetchAvatar(context.Background(), domain.AnonymousIdentity)
	assert.ErrorIs(t, err, domain.ErrNoHandle)
}
