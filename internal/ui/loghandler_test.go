package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandler_FansOut(t *testing.T) {
	var text, jsonBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&text, nil),
		slog.NewJSONHandler(&jsonBuf, nil),
	)
	logger := slog.New(h)

	logger.Info("organized", "files", 4)

	assert.Contains(t, text.String(), "organized")
	assert.Contains(t, text.String(), "files=4")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &rec))
	assert.Equal(t, "organized", rec["msg"])
	assert.EqualValues(t, 4, rec["files"])
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debug, warn bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h)
	logger.Debug("detail")
	logger.Warn("problem")

	assert.Contains(t, debug.String(), "detail")
	assert.Contains(t, debug.String(), "problem")
	assert.NotContains(t, warn.String(), "detail")
	assert.Contains(t, warn.String(), "problem")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("run", "abc")}).WithGroup("move"))
	logger.Info("done", "count", 2)

	assert.Contains(t, buf.String(), "run=abc")
	assert.Contains(t, buf.String(), "move.count=2")
}
