package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBufferWrapsAround(t *testing.T) {
	lb := NewLogBuffer(3)
	for _, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Level: slog.LevelInfo, Message: msg})
	}

	recent := lb.Recent(0, slog.LevelDebug)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message)
	assert.Equal(t, "b", recent[2].Message)

	assert.Len(t, lb.Recent(2, slog.LevelDebug), 2)

	lb.Clear()
	assert.Empty(t, lb.Recent(0, slog.LevelDebug))
}

func TestLogBufferFiltersLevel(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Add(LogEntry{Level: slog.LevelDebug, Message: "dbg"})
	lb.Add(LogEntry{Level: slog.LevelError, Message: "err"})
	lb.Add(LogEntry{Level: slog.LevelInfo, Message: "inf"})

	recent := lb.Recent(0, slog.LevelInfo)
	require.Len(t, recent, 2)
	assert.Equal(t, "inf", recent[0].Message)
	assert.Equal(t, "err", recent[1].Message)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	logger := slog.New(NewLogBufferHandler(lb, slog.LevelInfo))

	logger.Debug("dropped")
	logger.With("game", "7").WithGroup("req").Info("Orders loaded", "count", 2)

	recent := lb.Recent(0, slog.LevelDebug)
	require.Len(t, recent, 1)
	assert.Equal(t, "Orders loaded game=7 req.count=2", recent[0].Message)
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 13, 4, 5, 0, time.UTC)
	assert.Equal(t, "13:04:05 [WRN] careful", FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelWarn, Message: "careful"}))
	assert.Equal(t, "13:04:05 [ERR] boom", FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelError + 2, Message: "boom"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "he...", Truncate("hello world", 5))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "", Truncate("hello", 0))
}
