package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewSlogLogger(l), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestSlogLoggerLevels(t *testing.T) {
	ctx := context.Background()

	log, buf := newBufferLogger()
	log.Info(ctx, "hello", "k", "v")
	m := decodeLine(t, buf)
	assert.Equal(t, "INFO", m["level"])
	assert.Equal(t, "hello", m["msg"])
	assert.Equal(t, "v", m["k"])

	log, buf = newBufferLogger()
	log.Warn(ctx, "careful")
	assert.Equal(t, "WARN", decodeLine(t, buf)["level"])

	log, buf = newBufferLogger()
	log.Error(ctx, "boom")
	assert.Equal(t, "ERROR", decodeLine(t, buf)["level"])
}

func TestSlogLoggerWith(t *testing.T) {
	log, buf := newBufferLogger()
	child := log.With("module", "chat")
	child.Info(context.Background(), "attached")

	m := decodeLine(t, buf)
	assert.Equal(t, "chat", m["module"])
}
