// Package logger process-wide zerolog setup.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "haoshi-fruits"

var (
	mu     sync.RWMutex
	global = zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()
)

// Init configures the global logger. format is "json" or "console".
func Init(level, format string) zerolog.Logger {
	return InitWithWriter(level, format, os.Stdout)
}

// InitWithWriter same as Init with an explicit output
func InitWithWriter(level, format string, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	mu.Lock()
	global = l
	mu.Unlock()
	return l
}

// Get the global logger
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Component child logger tagged with a component name
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
