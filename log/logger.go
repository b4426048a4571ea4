package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// This package implements a hierarchical logger which allows adding prefixes.

type Logger struct {
	// Internal logger
	zerolog.Logger

	// The current prefix
	prefix string

	out   io.Writer
	level zerolog.Level
}

// NewLogger returns a console logger writing to stdout at the given level. Unknown levels fall
// back to info.
func NewLogger(rawLevel string) *Logger {
	return NewLoggerWithWriter(rawLevel, os.Stdout)
}

func NewLoggerWithWriter(rawLevel string, out io.Writer) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(rawLevel))
	if err != nil || rawLevel == "" {
		level = zerolog.InfoLevel
	}

	prefix := ""
	return newLoggerWithPrefix(prefix, out, level)
}

func newLoggerWithPrefix(prefix string, out io.Writer, level zerolog.Level) *Logger {
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stdout}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("%s%s", i, prefix))
	}
	log := zerolog.New(output).Level(level).With().Timestamp().Logger()

	return &Logger{
		prefix: prefix,
		Logger: log,
		out:    out,
		level:  level,
	}
}

func (l *Logger) ApplyPrefix(additionalPrefix string) *Logger {
	newPrefix := fmt.Sprintf("%s%s", l.prefix, additionalPrefix)

	return newLoggerWithPrefix(newPrefix, l.out, l.level)
}

// NewNopLogger discards everything. Handy in tests.
func NewNopLogger() *Logger {
	return &Logger{
		Logger: zerolog.Nop(),
		out:    io.Discard,
		level:  zerolog.Disabled,
	}
}
