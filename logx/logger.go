// Package logx wraps zerolog with the storefront defaults.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures Init.
type Options struct {
	// Level is a zerolog level name; unknown values mean info.
	Level string
	// Writer defaults to stderr.
	Writer io.Writer
	// Console switches to the human-readable console writer.
	Console bool
}

// ParseLevel maps a level name to a zerolog level, accepting "warning" too.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Init replaces the global logger.
func Init(opts Options) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(opts.Level))
}

// Disable drops every log event.
func Disable() {
	log.Logger = zerolog.New(io.Discard).Level(zerolog.Disabled)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}
