package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs, *bytes.Buffer) {
	core, logs := observer.New(level)
	var buf bytes.Buffer
	l := &Logger{
		slog: slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		zap:  zap.New(core),
	}
	return l, logs, &buf
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, l.GetSlog())
	assert.NotNil(t, l.GetZap())

	_, err = NewLogger(Config{Level: "debug", Format: "yaml", Output: "stderr"})
	assert.Error(t, err)
}

func TestParseLevels(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("bogus"))
	assert.Equal(t, zapcore.ErrorLevel, parseZapLevel("error").Level())
	assert.Equal(t, zapcore.InfoLevel, parseZapLevel("").Level())
}

func TestConvertToZapFields(t *testing.T) {
	fields := convertToZapFields([]interface{}{"a", 1, 2, "skipped", "dangling"})
	require.Len(t, fields, 1)
	assert.Equal(t, "a", fields[0].Key)
	assert.Nil(t, convertToZapFields(nil))
}

func TestLogViabilityLevels(t *testing.T) {
	l, logs, buf := newObservedLogger(zapcore.DebugLevel)

	l.LogViability(context.Background(), "s-1", 40, "warning", 3, true)
	l.LogViability(context.Background(), "s-1", 90, "healthy", 0, false)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Viability requires intervention", entries[0].Message)
	assert.Equal(t, "s-1", entries[0].ContextMap()["session_id"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["risks"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Contains(t, buf.String(), `"band":"warning"`)
}

func TestLogTokenUsageLevels(t *testing.T) {
	l, logs, _ := newObservedLogger(zapcore.InfoLevel)

	l.LogTokenUsage(context.Background(), "s-2", 50000, 50, false)
	l.LogTokenUsage(context.Background(), "s-2", 81000, 81, true)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Token budget exhausted, handoff required", entries[0].Message)
	assert.Equal(t, true, entries[0].ContextMap()["handoff"])
}

func TestLogConfidenceAndSession(t *testing.T) {
	l, logs, _ := newObservedLogger(zapcore.DebugLevel)

	l.WithSessionID(context.Background(), "s-3").LogConfidence(context.Background(), "s-3", 45,
		[]string{"Product type"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Confidence computed", entries[0].Message)
	assert.Equal(t, int64(45), entries[0].ContextMap()["confidence"])
}

func TestNopLoggerDiscards(t *testing.T) {
	l := NewNop()
	l.Info("ignored", "k", "v")
	l.LogTokenUsage(context.Background(), "s", 1, 1, true)
	assert.NoError(t, l.Sync())
}
