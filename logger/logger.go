package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide sugared logger. It starts as a no-op so
// library code can log before Init runs (and under go test).
var Log = zap.NewNop().Sugar()

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// InitDevelopment switches to the human-readable development encoder.
// Used by the local client and by tests that want readable output.
func InitDevelopment() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
