package cli

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	runLogger     *zap.Logger
	runLoggerOnce sync.Once
)

// Logger returns the logger for file-level progress of a run. It's a no-op
// logger unless "--log-level=debug" was passed or "SetLogger" was called.
// Problems with the input are never sent here. They go to stderr as
// diagnostics.
func Logger() *zap.Logger {
	runLoggerOnce.Do(func() {
		if runLogger == nil {
			runLogger = zap.NewNop()
		}
	})
	return runLogger
}

// SetLogger must be called before "Run"
func SetLogger(l *zap.Logger) {
	runLogger = l
}

func newRunLogger(jsonFormat bool) (*zap.Logger, error) {
	var config zap.Config
	if jsonFormat {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.DisableStacktrace = true
	return config.Build()
}
