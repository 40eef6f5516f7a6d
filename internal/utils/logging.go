package utils

import (
	"go.uber.org/zap"
)

// Logger is the process-wide structured logger. Components receive it by
// injection; the entrypoint obtains it here.
var Logger *zap.Logger

// InitLogger builds the production logger and installs it globally.
func InitLogger() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = logger
}

// GetLogger returns the global logger, initializing it on first use.
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}
