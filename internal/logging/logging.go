// Package logging provides the leveled, structured logger used across the
// wpilog-to-Parquet pipeline. It mirrors go.viam.com/rdk's logging.Logger
// surface (Debug/Info/Warn/Error, +f and +w variants, Named/Sublogger) over
// a zap core, trimmed to what a batch conversion CLI needs: no per-resource
// dynamic level registry, no network log forwarding.
package logging

import (
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger interface used throughout this module.
type Logger interface {
	Sublogger(subname string) Logger
	Named(name string) Logger

	SetLevel(level Level)
	Level() Level

	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Sync() error
}

// Level is a coarse logging severity, ordered least to most severe.
type Level int

// Severity levels, ordered so that comparisons (level >= threshold) work.
const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// newZapLoggerConfig mirrors go.viam.com/rdk/logging.NewLoggerConfig: same
// keys as zap's production config, colorized level, no stacktraces.
func newZapLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

type impl struct {
	name  string
	level Level
	sugar *zap.SugaredLogger
}

// NewLogger returns a logger that emits Info+ logs to stdout.
func NewLogger(name string) Logger {
	return newImpl(name, INFO)
}

// NewDebugLogger returns a logger that emits Debug+ logs to stdout.
func NewDebugLogger(name string) Logger {
	return newImpl(name, DEBUG)
}

// NewTestLogger returns a Debug+ logger that writes to the test's own
// output via testing.TB.Log, so `go test -v` interleaves log lines with
// assertion failures in run order.
func NewTestLogger(tb testing.TB) Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(newZapLoggerConfig().EncoderConfig),
		zapcore.AddSync(testWriter{tb}),
		zapcore.DebugLevel,
	)
	return &impl{name: "", level: DEBUG, sugar: zap.New(core).Sugar()}
}

type testWriter struct{ tb testing.TB }

func (w testWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(p))
	return len(p), nil
}

func newImpl(name string, level Level) *impl {
	cfg := newZapLoggerConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	zl := zap.Must(cfg.Build())
	return &impl{name: name, level: level, sugar: zl.Sugar().Named(name)}
}

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	return &impl{name: name, level: imp.level, sugar: imp.sugar.Desugar().Sugar().Named(subname)}
}

func (imp *impl) Named(name string) Logger {
	return imp.Sublogger(name)
}

func (imp *impl) SetLevel(level Level) {
	imp.level = level
}

func (imp *impl) Level() Level {
	return imp.level
}

func (imp *impl) shouldLog(level Level) bool {
	return level >= imp.level
}

func (imp *impl) Debug(args ...interface{}) {
	if imp.shouldLog(DEBUG) {
		imp.sugar.Debug(args...)
	}
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	if imp.shouldLog(DEBUG) {
		imp.sugar.Debugf(template, args...)
	}
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	if imp.shouldLog(DEBUG) {
		imp.sugar.Debugw(msg, keysAndValues...)
	}
}

func (imp *impl) Info(args ...interface{}) {
	if imp.shouldLog(INFO) {
		imp.sugar.Info(args...)
	}
}

func (imp *impl) Infof(template string, args ...interface{}) {
	if imp.shouldLog(INFO) {
		imp.sugar.Infof(template, args...)
	}
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	if imp.shouldLog(INFO) {
		imp.sugar.Infow(msg, keysAndValues...)
	}
}

func (imp *impl) Warn(args ...interface{}) {
	if imp.shouldLog(WARN) {
		imp.sugar.Warn(args...)
	}
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	if imp.shouldLog(WARN) {
		imp.sugar.Warnf(template, args...)
	}
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	if imp.shouldLog(WARN) {
		imp.sugar.Warnw(msg, keysAndValues...)
	}
}

func (imp *impl) Error(args ...interface{}) {
	if imp.shouldLog(ERROR) {
		imp.sugar.Error(args...)
	}
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	if imp.shouldLog(ERROR) {
		imp.sugar.Errorf(template, args...)
	}
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	if imp.shouldLog(ERROR) {
		imp.sugar.Errorw(msg, keysAndValues...)
	}
}

func (imp *impl) Sync() error {
	err := imp.sugar.Sync()
	// zap returns an error syncing stdout/stderr on some platforms; that's
	// not actionable for a CLI tool exiting normally.
	if err != nil && os.Getenv("WPILOG_STRICT_LOG_SYNC") == "" {
		return nil
	}
	return err
}
