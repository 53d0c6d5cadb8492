package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	once          sync.Once
)

// Init initializes the default logger writing to stderr. It ensures that
// the logger is initialized only once.
func Init() {
	once.Do(func() {
		defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	})
}

// SetLevel adjusts the global log level ("debug", "info", "warn", "error").
func SetLevel(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

// Get returns the initialized default logger.
func Get() *zerolog.Logger {
	Init()
	return &defaultLogger
}

// Info logs an informational message with optional key/value pairs.
func Info(msg string, kv ...any) {
	Get().Info().Fields(kv).Msg(msg)
}

// Warn logs a warning message with optional key/value pairs.
func Warn(msg string, kv ...any) {
	Get().Warn().Fields(kv).Msg(msg)
}

// Error logs an error message.
func Error(msg string, err error, kv ...any) {
	Get().Error().Err(err).Fields(kv).Msg(msg)
}

// Debug logs a debug message with optional key/value pairs.
func Debug(msg string, kv ...any) {
	Get().Debug().Fields(kv).Msg(msg)
}
