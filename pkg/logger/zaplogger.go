package logger

import (
	"io"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02T15-04-05.000"

// Options configures a Logger.
type Options struct {
	AppName string
	AppEnv  string
	// Level is a zap level name, "debug" when empty or unknown.
	Level string
	// Format is "json" (default) or "console".
	Format string
	// Location used for timestamps, UTC when nil.
	Location *time.Location
}

type Logger struct {
	appEnv  string
	appName string
	l       *zap.Logger
}

func NewZapLogger(opts Options, writers ...io.Writer) *Logger {
	var multiWriters []zapcore.WriteSyncer

	cfg := zap.NewProductionEncoderConfig()

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	cfg.EncodeTime = timeEncoder(timeLayout, loc)
	cfg.TimeKey = "timestamp"

	if len(writers) == 0 {
		multiWriters = append(multiWriters, os.Stdout)
	} else {
		for _, writer := range writers {
			multiWriters = append(multiWriters, zapcore.AddSync(writer))
		}
	}

	encoder := zapcore.NewJSONEncoder(cfg)
	if opts.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(multiWriters...),
		level,
	)

	return &Logger{
		appEnv:  opts.AppEnv,
		appName: opts.AppName,
		l:       zap.New(core),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

func (l *Logger) Stop() error {
	return l.l.Sync()
}

func (l *Logger) Error(err error, fields ...map[string]any) {
	file, line, funcName := getRuntimeParams(2)
	l.l.WithOptions(zap.Fields(fieldsOf(fields)...)).Error(
		err.Error(),
		zap.String("app_env", l.appEnv),
		zap.String("app_name", l.appName),
		zap.String("error", err.Error()),
		zap.String("caller_file", file),
		zap.Int("caller_line", line),
		zap.String("caller_func", funcName),
		zap.Stack("stack"),
	)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	l.write(zapcore.InfoLevel, msg, fields)
}

func (l *Logger) Warning(msg string, fields ...map[string]any) {
	l.write(zapcore.WarnLevel, msg, fields)
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	l.write(zapcore.DebugLevel, msg, fields)
}

func (l *Logger) Fatal(msg string, fields ...map[string]any) {
	l.write(zapcore.FatalLevel, msg, fields)
}

func (l *Logger) write(level zapcore.Level, msg string, fields []map[string]any) {
	ce := l.l.WithOptions(zap.Fields(fieldsOf(fields)...)).Check(level, msg)
	if ce == nil {
		return
	}

	file, line, funcName := getRuntimeParams(3)
	ce.Write(
		zap.String("app_env", l.appEnv),
		zap.String("app_name", l.appName),
		zap.String("caller_file", file),
		zap.Int("caller_line", line),
		zap.String("caller_func", funcName),
	)
}

func fieldsOf(fields []map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	zapFields := make([]zap.Field, 0, len(fields[0]))
	for k, v := range fields[0] {
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return zapFields
}

// getRuntimeParams reports the caller skip frames above it.
func getRuntimeParams(skip int) (file string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "not_defined", 0, "not_defined"
	}
	return file, line, runtime.FuncForPC(pc).Name()
}

func timeEncoder(layout string, location *time.Location) func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		t = t.In(location)
		type appendTimeEncoder interface {
			AppendTimeLayout(time.Time, string)
		}
		if enc, ok := enc.(appendTimeEncoder); ok {
			enc.AppendTimeLayout(t, layout)
			return
		}
		enc.AppendString(t.Format(layout))
	}
}
