package observe

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"agroweather/pkg/logger"
)

func TestSentryHook_ForwardsErrors(t *testing.T) {
	var events []*sentry.Event
	hook := newSentryHook("prod", "agroweather", func(e *sentry.Event) { events = append(events, e) })

	l := logger.NewZapLogger(logger.Options{AppName: "agroweather", AppEnv: "prod"}, hook)
	hook.SetLogger(l)

	l.Info("fetching forecast", map[string]any{"location": "Kurnool"})
	l.Warning("daily feed unavailable")
	l.Error(errors.New("both feeds failed"), map[string]any{"location": "Kurnool"})

	require.Len(t, events, 1)
	assert.Equal(t, sentry.LevelError, events[0].Level)
	assert.Equal(t, "both feeds failed", events[0].Message)
	assert.Equal(t, "prod", events[0].Environment)
	assert.Equal(t, "agroweather", events[0].Extra["AppName"])
	require.Len(t, events[0].Exception, 1)
	assert.Equal(t, "both feeds failed", events[0].Exception[0].Value)
}

func TestSentryHook_IgnoresGarbage(t *testing.T) {
	captured := 0
	hook := newSentryHook("dev", "agroweather", func(*sentry.Event) { captured++ })

	n, err := hook.Write([]byte("not json"))

	assert.NoError(t, err)
	assert.Equal(t, len("not json"), n)
	assert.Zero(t, captured)
}

func TestSentryHook_MapLevel(t *testing.T) {
	hook := &SentryHook{}
	assert.Equal(t, sentry.LevelDebug, hook.mapLevel(zapcore.DebugLevel))
	assert.Equal(t, sentry.LevelWarning, hook.mapLevel(zapcore.WarnLevel))
	assert.Equal(t, sentry.LevelError, hook.mapLevel(zapcore.ErrorLevel))
	assert.Equal(t, sentry.LevelFatal, hook.mapLevel(zapcore.FatalLevel))
}
