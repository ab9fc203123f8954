package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// NewTestLogger returns a Logger that writes through testing.T so failures show
// up attributed to the right test.
func NewTestLogger(tb testing.TB) Logger {
	zl := zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel)).Sugar()
	return &impl{name: "test", zl: zl}
}
