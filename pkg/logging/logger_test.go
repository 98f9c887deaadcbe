package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ngs/google-mcp-client/pkg/errors"
)

func newTestLogger() (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	formatter := NewTextFormatter()
	formatter.DisableColors = true
	formatter.DisableTimestamp = true
	return New(buf, formatter), buf
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newTestLogger()

	logger.Debug("hidden")
	assert.Empty(t, buf.String(), "debug is below the default level")

	logger.SetLevel(DebugLevel)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, DebugLevel, logger.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("info"))
	assert.Equal(t, InfoLevel, ParseLevel("garbage"))
}

func TestWithFields(t *testing.T) {
	logger, buf := newTestLogger()

	child := logger.WithFields(String("component", "transport"), String("operation", "start"))
	child.Info("launching server", String("command", "google-mcp-server"))

	line := buf.String()
	assert.Contains(t, line, "transport/start: launching server")
	assert.Contains(t, line, "command=google-mcp-server")

	// The parent logger is unaffected.
	buf.Reset()
	logger.Info("plain")
	assert.NotContains(t, buf.String(), "transport")
}

func TestWithContextSessionID(t *testing.T) {
	logger, buf := newTestLogger()

	ctx := ContextWithSessionID(context.Background(), "s-123")
	logger.WithContext(ctx).Info("call issued")

	assert.Contains(t, buf.String(), "[s-123]")
	assert.Equal(t, "s-123", SessionIDFromContext(ctx))
	assert.Equal(t, "", SessionIDFromContext(context.Background()))
}

func TestWithErrorClientError(t *testing.T) {
	logger, buf := newTestLogger()

	err := mcperrors.NoResponse("tools/call")
	logger.WithError(err).Error("call failed")

	line := buf.String()
	assert.Contains(t, line, "error_category=transport")
	assert.Contains(t, line, "method=tools/call")
	assert.Contains(t, line, "[ERROR]")
}

func TestTextFormatterQuotesSpaces(t *testing.T) {
	logger, buf := newTestLogger()
	logger.Info("msg", String("step", "create doc"))
	assert.Contains(t, buf.String(), `step="create doc"`)
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, NewJSONFormatter())

	logger.Info("initialized", String("server", "google-mcp-server"), Int("id", 1))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "initialized", entry["msg"])
	assert.Equal(t, "google-mcp-server", entry["server"])
	assert.Equal(t, float64(1), entry["id"])
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must accept all levels.
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
}
