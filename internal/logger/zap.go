package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// defaultZapLevel defines the fallback log level when an unknown level string is provided.
const defaultZapLevel = zapcore.InfoLevel

// toZapLevel converts a textual level to zapcore.Level using known level constants.
func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

func newEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// newConsoleCore builds a zapcore.Core with a console encoder targeting stdout.
func newConsoleCore(level zapcore.Level) zapcore.Core {
	encoder := zapcore.NewConsoleEncoder(newEncoderConfig())
	ws := zapcore.Lock(os.Stdout) // thread-safe writer
	return zapcore.NewCore(encoder, zapcore.AddSync(ws), zap.NewAtomicLevelAt(level))
}

// newFileCore builds a core appending to the given path, or nil if the file
// cannot be opened.
func newFileCore(level zapcore.Level, path string) zapcore.Core {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	encoder := zapcore.NewConsoleEncoder(newEncoderConfig())
	return zapcore.NewCore(encoder, zapcore.AddSync(f), zap.NewAtomicLevelAt(level))
}

// newZapLogger constructs a sugared zap logger with the provided level string
// and optional log file.
func newZapLogger(levelStr, filePath string) *Logger {
	level := toZapLevel(levelStr)
	core := newConsoleCore(level)
	if filePath != "" {
		if fc := newFileCore(level, filePath); fc != nil {
			core = zapcore.NewTee(core, fc)
		}
	}
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
	}
}
