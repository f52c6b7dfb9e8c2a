// Package logging wraps the program's zerolog logger behind short
// printf-style helpers used throughout the codebase.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	base   zerolog.Logger
	level  int
	inited bool

	// fallback serves log calls made before Setup runs.
	fallback = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
)

// Setup initialises the global logger. debugLevel controls which D()
// messages are emitted; logFile is optional (stdout only when empty).
func Setup(debugLevel int, logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
		}
		w = zerolog.MultiLevelWriter(w, f)
	}

	base = zerolog.New(w).With().Timestamp().Logger()
	level = debugLevel
	inited = true
	return nil
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !inited {
		return &fallback
	}
	return &base
}

// I logs general information.
func I(format string, args ...any) {
	logger().Info().Msgf(format, args...)
}

// S logs a success.
func S(format string, args ...any) {
	logger().Info().Str("outcome", "success").Msgf(format, args...)
}

// W logs a warning.
func W(format string, args ...any) {
	logger().Warn().Msgf(format, args...)
}

// E logs an error.
func E(format string, args ...any) {
	logger().Error().Msgf(format, args...)
}

// D logs a debug message when the configured debug level is at least l.
func D(l int, format string, args ...any) {
	mu.RLock()
	lvl := level
	mu.RUnlock()
	if l > lvl {
		return
	}
	logger().Debug().Msgf(format, args...)
}
