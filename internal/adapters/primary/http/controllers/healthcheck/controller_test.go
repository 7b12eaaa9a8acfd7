package healthcheckController

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(c *HealthCheckController, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	c := New(slog.New(slog.NewTextHandler(io.Discard, nil))).
		AddCheck("archive", func(context.Context) error { return errors.New("down") })

	assert.Equal(t, http.StatusOK, serve(c, "/health").Code, "liveness ignores dependencies")
}

func TestReady(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ok := New(log).AddCheck("archive", func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, serve(ok, "/ready").Code)

	broken := New(log).
		AddCheck("archive", func(context.Context) error { return nil }).
		AddCheck("events", func(context.Context) error { return errors.New("no brokers") })

	w := serve(broken, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not ready","failed":{"events":"no brokers"}}`, w.Body.String())
}
