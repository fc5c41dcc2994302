package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json output carries service field", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Options{Level: "info", Format: "json", Service: "cartwise", Writer: &buf})

		l.Info().Str("list", "weekly").Msg("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "cartwise", line["service"])
		assert.Equal(t, "weekly", line["list"])
		assert.Equal(t, "hello", line["message"])
	})

	t.Run("drops events below level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Options{Level: "warn", Format: "json", Writer: &buf})

		l.Info().Msg("quiet")
		assert.Zero(t, buf.Len())
	})
}

func TestRequestContext(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Level: "debug", Format: "json", Writer: &buf})

	ctx := WithRequestID(context.Background(), base, "req-123")
	C(ctx, zerolog.Nop()).Info().Msg("scoped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-123", line["request_id"])

	t.Run("falls back when context has no logger", func(t *testing.T) {
		l := C(context.Background(), base)
		require.NotNil(t, l)
	})
}

func TestNewLeavesTimeFormatAlone(t *testing.T) {
	New(Options{Writer: &bytes.Buffer{}})
	require.Equal(t, time.RFC3339Nano, zerolog.TimeFieldFormat)

	prev := zerolog.TimeFieldFormat
	defer func() { zerolog.TimeFieldFormat = prev }()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	New(Options{Level: "debug", Format: "json", Writer: &bytes.Buffer{}})
	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
}
