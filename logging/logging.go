// Package logging provides the structured logger used throughout the servoing core.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the sugared, leveled logger passed to every component in the servoing
// pipeline. It mirrors the subset of zap's SugaredLogger surface that the core
// actually exercises.
type Logger interface {
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

	// Sublogger returns a child logger namespaced under name, e.g. "servo.inverse".
	Sublogger(name string) Logger

	// AsZap exposes the underlying sugared logger for callers that need it (tests,
	// third-party libraries that accept a *zap.SugaredLogger directly).
	AsZap() *zap.SugaredLogger
}

type impl struct {
	name string
	zl   *zap.SugaredLogger
}

// NewConfig returns the base zap.Config used by NewLogger, colorized console
// output at info level with stack traces disabled.
func NewConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  zapcore.OmitKey,
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

// NewLogger returns a new named logger that writes Info+ to stdout.
func NewLogger(name string) Logger {
	zl := zap.Must(NewConfig().Build()).Sugar().Named(name)
	return &impl{name: name, zl: zl}
}

// NewDebugLogger returns a new named logger that writes Debug+ to stdout.
func NewDebugLogger(name string) Logger {
	cfg := NewConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	zl := zap.Must(cfg.Build()).Sugar().Named(name)
	return &impl{name: name, zl: zl}
}

func (l *impl) Debug(args ...interface{})                        { l.zl.Debug(args...) }
func (l *impl) Debugf(template string, args ...interface{})      { l.zl.Debugf(template, args...) }
func (l *impl) Debugw(msg string, kv ...interface{})              { l.zl.Debugw(msg, kv...) }
func (l *impl) Info(args ...interface{})                          { l.zl.Info(args...) }
func (l *impl) Infof(template string, args ...interface{})       { l.zl.Infof(template, args...) }
func (l *impl) Infow(msg string, kv ...interface{})               { l.zl.Infow(msg, kv...) }
func (l *impl) Warn(args ...interface{})                          { l.zl.Warn(args...) }
func (l *impl) Warnf(template string, args ...interface{})       { l.zl.Warnf(template, args...) }
func (l *impl) Warnw(msg string, kv ...interface{})                { l.zl.Warnw(msg, kv...) }
func (l *impl) Error(args ...interface{})                         { l.zl.Error(args...) }
func (l *impl) Errorf(template string, args ...interface{})      { l.zl.Errorf(template, args...) }
func (l *impl) Errorw(msg string, kv ...interface{})               { l.zl.Errorw(msg, kv...) }

func (l *impl) Sublogger(name string) Logger {
	newName := name
	if l.name != "" {
		newName = l.name + "." + name
	}
	return &impl{name: newName, zl: l.zl.Named(name)}
}

func (l *impl) AsZap() *zap.SugaredLogger { return l.zl }

var (
	globalMu     sync.RWMutex
	globalLogger = NewDebugLogger("servocalcs")
)

// Global returns the package-wide default logger.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// ReplaceGlobal swaps the package-wide default logger, for tests or embedders
// that want their own sink.
func ReplaceGlobal(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}
