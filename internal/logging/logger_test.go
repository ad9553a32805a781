package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := Logger()
	previousLevel := zerolog.GlobalLevel()
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		SetLogger(previous)
		zerolog.SetGlobalLevel(previousLevel)
	})
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestInit_WritesJSON(t *testing.T) {
	previous := Logger()
	previousLevel := zerolog.GlobalLevel()
	defer func() {
		SetLogger(previous)
		zerolog.SetGlobalLevel(previousLevel)
	}()

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("dropped")
	assert.Empty(t, buf.String())

	Warn().Str("task", "A").Msg("kept")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "A", entry["task"])
}

func TestErr_AddsErrorField(t *testing.T) {
	buf := captureLogs(t)

	Err(errors.New("boom")).Msg("failed")

	entry := decodeLine(t, buf)
	assert.Equal(t, "boom", entry["error"])
}

func TestWithComponent(t *testing.T) {
	buf := captureLogs(t)

	logger := WithComponent("reconcile")
	logger.Info().Msg("hello")

	entry := decodeLine(t, buf)
	assert.Equal(t, "reconcile", entry["component"])
}

func TestCtx_AddsIDs(t *testing.T) {
	buf := captureLogs(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	Ctx(ctx).Info().Msg("with ids")

	entry := decodeLine(t, buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "corr-1", entry["correlation_id"])
}

func TestContextIDs_Absent(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	assert.Len(t, GenerateCorrelationID(), 8)
	assert.Len(t, GenerateRequestID(), 36)
}
