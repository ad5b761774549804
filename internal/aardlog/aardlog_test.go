package aardlog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPhaseTagsEveryLineWithItsPhase(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newFromCore(core)

	l.Phase("load").Info("loaded static modules")
	l.Phase("plugin:sbfl").Info("emitted results", zap.Int("count", 3))

	entries := logs.All()
	require.Len(t, entries, 2)

	require.Equal(t, "loaded static modules", entries[0].Message)
	require.Equal(t, "load", entries[0].ContextMap()["phase"])

	require.Equal(t, "emitted results", entries[1].Message)
	require.Equal(t, "plugin:sbfl", entries[1].ContextMap()["phase"])
	require.Equal(t, int64(3), entries[1].ContextMap()["count"])
}

func TestNewAppliesVerboseLevel(t *testing.T) {
	quiet, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, quiet)

	verbose, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, verbose)
}
