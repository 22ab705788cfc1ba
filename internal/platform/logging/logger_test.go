package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestLoggerWritesTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).Named("transfer")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "transfer committed", "squad_id", "squad-1", "point_cost", 4, "error", errors.New("none"))

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "transfer committed", line["msg"])
	require.Equal(t, "transfer", line["logger"])
	require.Equal(t, "squad-1", line["squad_id"])
	require.EqualValues(t, 4, line["point_cost"])
	require.Equal(t, "none", line["error"])
	require.Equal(t, traceID.String(), line["trace_id"])
	require.Equal(t, spanID.String(), line["span_id"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)

	logger.Info("hidden")
	require.Zero(t, buf.Len())

	logger.Warn("shown", "odd")
	require.Contains(t, buf.String(), `"odd":null`)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, level)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("nothing happens")
	require.NotNil(t, logger.With("k", "v"))
}
