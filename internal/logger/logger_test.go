package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestNewTee verifies that entries are duplicated into the extra writer.
func TestNewTee(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewTee(zapcore.InfoLevel, &buf)
	l.Infow("staging data files", "path", "dist")

	require.Contains(t, buf.String(), "staging data files")
	require.Contains(t, buf.String(), "dist")
}

// TestFromContext verifies the context helpers fall back to the global logger.
func TestFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.NotNil(t, FromContext(ctx))

	named := WithName(ctx, "archiver")
	require.NotSame(t, FromContext(ctx), FromContext(named))
}
