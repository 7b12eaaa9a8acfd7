package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("gateway", &Config{Encoding: "json", Level: "warn"}, &buf)

	log.Info("hidden")
	log.Warn("visible", "identity", "alice")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "gateway", entry["app"])
	assert.Equal(t, "alice", entry["identity"])
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("avatar", nil, &buf)

	log.Debug("hidden")
	log.Info("ready", "remaining", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=ready")
	assert.Contains(t, buf.String(), "app=avatar")
	assert.Contains(t, buf.String(), "remaining=3")
}

func TestParseLevel(t *testing.T) {
	assert.NotPanics(t, func() { parseLevel("") })
	assert.NotPanics(t, func() { parseLevel("DEBUG") })
	assert.Panics(t, func() { parseLevel("loud") })
	assert.Panics(t, func() { NewWithWriter("x", &Config{Encoding: "xml"}, &bytes.Buffer{}) })
}
