// Package logger builds the zerolog logger shared by the server and the CLI
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level   string
	Format  string // "console" or "json"
	Service string
	Writer  io.Writer
}

var globalsOnce sync.Once

// setGlobals configures process-wide zerolog settings on first use
func setGlobals() {
	globalsOnce.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	})
}

// New builds a logger from opt. Unknown levels fall back to info.
func New(opt Options) zerolog.Logger {
	setGlobals()

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}

	ctx := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	return ctx.Logger()
}

// ParseLevel maps a level name to a zerolog level
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithRequestID returns a context carrying l enriched with the request id
func WithRequestID(ctx context.Context, l zerolog.Logger, requestID string) context.Context {
	child := l.With().Str("request_id", requestID).Logger()
	return child.WithContext(ctx)
}

// C returns the logger stored in ctx, or fallback when there is none
func C(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
