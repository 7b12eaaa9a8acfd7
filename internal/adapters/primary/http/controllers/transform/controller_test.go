package transformController

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "github.com/kopachlager/xmasavatar/internal/adapters/primary/http"
	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/usecases/transform"
)

type stubModel struct {
	parts []domain.ContentPart
	err   error
	calls int
}

func (m *stubModel) EditImage(context.Context, string, []byte, string, string) ([]domain.ContentPart, error) {
	m.calls++
	return m.parts, m.err
}

type stubAlerter struct{}

func (stubAlerter) SendAlert(context.Context, string) error { return nil }

type fixture struct {
	srv    *httptest.Server
	router http.Handler
	model  *stubModel
}

func newFixture(t *testing.T, model *stubModel, env map[string]string) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := transform.New(model, stubAlerter{}, log,
		transform.WithLookupEnv(func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		}))

	router := server.NewRouter(&server.Config{MaxBodyBytes: 1 << 20}, log, New(svc, log))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, router: router, model: model}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]string) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	parsed := map[string]string{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), string(raw))
	}
	return resp, parsed
}

func body(image, prompt string) string {
	data, _ := json.Marshal(domain.TransformRequest{Image: image, Prompt: prompt})
	return string(data)
}

var sourceURI = (&domain.Image{Data: []byte("source"), MIMEType: "image/jpeg"}).DataURI()

func TestTransform_RoundTrip(t *testing.T) {
	f := newFixture(t, &stubModel{parts: []domain.ContentPart{{Text: "ok"}, {Data: []byte("festive")}}},
		map[string]string{"API_KEY": "k"})

	for _, path := range Paths {
		resp, parsed := f.do(t, http.MethodPost, path, body(sourceURI, "Santa hat"))

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

		img, err := domain.ParseDataURI(parsed["image"])
		require.NoError(t, err)
		assert.Equal(t, domain.MIMETypePNG, img.MIMEType)
		assert.Equal(t, []byte("festive"), img.Data)
	}
}

func TestTransform_Options(t *testing.T) {
	f := newFixture(t, &stubModel{}, nil)

	resp, parsed := f.do(t, http.MethodOptions, "/transform", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, parsed)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Zero(t, f.model.calls)
}

func TestTransform_MethodNotAllowed(t *testing.T) {
	f := newFixture(t, &stubModel{}, nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp, parsed := f.do(t, method, "/transform", "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
		assert.Equal(t, "Method Not Allowed", parsed["error"])
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	}
	assert.Zero(t, f.model.calls)
}

func TestTransform_NonStandardMethod(t *testing.T) {
	f := newFixture(t, &stubModel{}, nil)

	for _, method := range []string{"PROPFIND", "FOO"} {
		for _, path := range Paths {
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method+" "+path)
			assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		}
	}
	assert.Zero(t, f.model.calls)
}

func TestTransform_BadRequest(t *testing.T) {
	f := newFixture(t, &stubModel{}, map[string]string{"API_KEY": "k"})

	cases := map[string]struct {
		body    string
		message string
	}{
		"malformed json": {body: "{not json", message: msgMissingImage},
		"missing image":  {body: `{"prompt":"x"}`, message: msgMissingImage},
		"not base64":     {body: body("@@@@", "x"), message: msgInvalidImage},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, parsed := f.do(t, http.MethodPost, "/transform", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.message, parsed["error"])
		})
	}
	assert.Zero(t, f.model.calls)
}

func TestTransform_TooLarge(t *testing.T) {
	f := newFixture(t, &stubModel{}, map[string]string{"API_KEY": "k"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transform", strings.NewReader(body(strings.Repeat("A", 2<<20), "")))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"Image is too large"}`, w.Body.String())
	assert.Zero(t, f.model.calls)
}

func TestTransform_MissingCredential(t *testing.T) {
	f := newFixture(t, &stubModel{}, map[string]string{})

	resp, parsed := f.do(t, http.MethodPost, "/transform", body(sourceURI, "x"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Server configuration error: API key is not configured", parsed["error"])
	assert.Zero(t, f.model.calls)
}

func TestTransform_NoImageReturned(t *testing.T) {
	f := newFixture(t, &stubModel{parts: []domain.ContentPart{{Text: "sorry"}}}, map[string]string{"API_KEY": "k"})

	resp, parsed := f.do(t, http.MethodPost, "/transform", body(sourceURI, "x"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "The artisan failed to return an image artifact. Try a different photo.", parsed["error"])
}

func TestTransform_ModelFailure(t *testing.T) {
	f := newFixture(t, &stubModel{err: errors.New("model overloaded")}, map[string]string{"API_KEY": "k"})

	resp, parsed := f.do(t, http.MethodPost, "/transform", body(sourceURI, "x"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Alchemy failed: model overloaded", parsed["error"])
}
