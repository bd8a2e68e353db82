package client

import "log"

// Logger is an optional package logger used for non-fatal warnings.
type Logger interface {
	// Warnf logs a formatted warning message.
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// StdLogger adapts a *log.Logger.
type StdLogger struct {
	Logger *log.Logger
}

func (l StdLogger) Warnf(format string, args ...any) {
	if l.Logger == nil {
		log.Printf("warning: "+format, args...)
		return
	}
	l.Logger.Printf("warning: "+format, args...)
}
