package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided level. An
// optional file path adds a second output target alongside stdout, for runs
// under an init system that doesn't capture stdout. The first call
// initializes the logger; subsequent calls ignore the arguments and return
// the already initialized instance.
func Get(level string, file ...string) *Logger {
	once.Do(func() {
		path := ""
		if len(file) > 0 {
			path = file[0]
		}
		globalLogger = newZapLogger(level, path)
	})
	return globalLogger
}
