package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": slog.LevelDebug,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

type lines struct{ got []string }

func (l *lines) WriteLineString(s string) { l.got = append(l.got, s) }
func (l *lines) WriteLineBytes(b []byte)  { l.got = append(l.got, string(b)) }

func TestHALHandlerWritesOneLinePerRecord(t *testing.T) {
	var l lines
	log := NewHAL(&l, slog.LevelInfo).With("component", "firmware")
	log.Debug("hidden")
	log.Info("ready", "rows", 5)
	log.Log(context.Background(), LevelTrace, "too quiet")

	require.Len(t, l.got, 1)
	assert.Equal(t, "level=INFO msg=ready component=firmware rows=5", l.got[0])
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelTrace, "json").Log(context.Background(), LevelTrace, "report", "len", 8)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "TRACE", rec["level"])
	assert.Equal(t, "report", rec["msg"])
}

func TestMultiHandlerAndLevelFilter(t *testing.T) {
	var low, high bytes.Buffer
	lo := NewLevelFilter(func(l slog.Level) bool { return l < slog.LevelError }, New(&low, slog.LevelDebug, "text").Handler())
	hi := NewLevelFilter(func(l slog.Level) bool { return l >= slog.LevelError }, New(&high, slog.LevelDebug, "text").Handler())
	log := slog.New(NewMultiHandler(lo, hi)).WithGroup("scan")

	log.Info("tick", "n", 1)
	log.Error("pin failed", "row", 2)

	assert.Contains(t, low.String(), "scan.n=1")
	assert.NotContains(t, low.String(), "pin failed")
	assert.Contains(t, high.String(), "scan.row=2")
	assert.Equal(t, 1, strings.Count(high.String(), "\n"))
}
