// Package logging builds the zerolog logger used across ppimap and carries
// it through contexts.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level written: trace, debug, info, warn, error or disabled.
	Level string
	// Format is console, json or auto. Auto picks console on a terminal.
	Format string
	// Output is stderr, stdout, discard or a file path opened for append.
	Output string
	// TimeFormat is a Go layout or one of kitchen, rfc3339, unix.
	TimeFormat string
	NoColor    bool
	AddCaller  bool
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "rfc3339",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// New returns a logger for cfg and a function that releases its output.
// When Output names a file that cannot be opened, logs go to stderr and the
// first entry written is a warning saying so.
func New(cfg Config) (zerolog.Logger, func() error) {
	level := ParseLevel(cfg.Level)
	out, closeFn, openErr := writer(cfg)
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	if openErr != nil {
		logger.Warn().Err(openErr).Str("output", cfg.Output).Msg("cannot open log file, logging to stderr")
	}
	return logger, closeFn
}

// NewWriter returns a JSON logger writing to w, mostly for tests and
// embedding callers.
func NewWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

func noClose() error { return nil }

func writer(cfg Config) (io.Writer, func() error, error) {
	var (
		out     io.Writer
		closeFn = noClose
		openErr error
	)
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		return io.Discard, noClose, nil
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			out, openErr = os.Stderr, err
		} else {
			out, closeFn = f, f.Close
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			format = "console"
		}
	}
	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeFormat(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}, closeFn, openErr
	}
	return out, closeFn, openErr
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ParseLevel maps a level name to a zerolog level. Unknown names yield info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	case "":
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

func timeFormat(name string) string {
	switch strings.ToLower(name) {
	case "kitchen":
		return time.Kitchen
	case "", "rfc3339":
		return time.RFC3339
	case "unix":
		return ""
	}
	return name
}

type contextKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(zerolog.Logger); ok {
			return l
		}
	}
	return zerolog.Nop()
}
