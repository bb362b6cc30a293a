package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger. Debug mode uses the development config (console,
// debug level); otherwise the production config (JSON, info level).
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Named returns logger scoped to a component, or a no-op logger when logger is nil.
func Named(logger *zap.Logger, component string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(component)
}
