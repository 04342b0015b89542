package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestLogger_InfoWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger(Options{AppName: "test-app", AppEnv: "test"}, &buf)

	l.Info("fetched forecast", map[string]any{"location": "Guntur", "days": 5})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "fetched forecast", lines[0]["msg"])
	assert.Equal(t, "test-app", lines[0]["app_name"])
	assert.Equal(t, "test", lines[0]["app_env"])
	assert.Equal(t, "Guntur", lines[0]["location"])
	assert.EqualValues(t, 5, lines[0]["days"])
	assert.Contains(t, lines[0]["caller_file"], "zaplogger_test.go")
}

func TestLogger_ErrorCarriesErrorAndStack(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger(Options{AppName: "test-app"}, &buf)

	l.Error(errors.New("upstream timeout"), map[string]any{"repo": "openweathermap"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "upstream timeout", lines[0]["error"])
	assert.Equal(t, "openweathermap", lines[0]["repo"])
	assert.NotEmpty(t, lines[0]["stack"])
	assert.Contains(t, lines[0]["caller_file"], "zaplogger_test.go")
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger(Options{AppName: "test-app", Level: "warn"}, &buf)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warning("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger(Options{AppName: "test-app", Format: "console"}, &buf)

	l.Info("plain line")

	assert.Contains(t, buf.String(), "plain line")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.Error(errors.New("nothing"))
	assert.NoError(t, l.Stop())
}
