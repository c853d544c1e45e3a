package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_FallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("not-a-level", "development"))
	l := Get()
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, Init("debug", "production"))
	assert.True(t, Get().Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestWithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	Get().Named("collector").With("symbol", "RB0").Infow("fetched", "bars", 120)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "collector", entries[0].LoggerName)
	assert.Equal(t, "fetched", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "RB0", ctx["symbol"])
	assert.EqualValues(t, 120, ctx["bars"])
}
