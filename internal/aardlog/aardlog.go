// Package aardlog wraps zap with the orchestrator's phase-scoped logging
// convention: one sub-logger per pipeline phase (script, load,
// plugin:<name>), each line tagged with that phase so a run's log can be filtered
// by stage without grepping message text.
package aardlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin handle around a *zap.Logger, kept as its own type so
// callers never import zap directly outside this package.
type Logger struct {
	z *zap.Logger
}

// New builds a production-configured Logger; verbose raises the level to
// Debug.
func New(verbose bool) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// Sync flushes any buffered log entries; call before the process exits.
func (l *Logger) Sync() error { return l.z.Sync() }

// newFromCore builds a Logger directly from a zapcore.Core, bypassing the
// production encoder; used by tests to observe emitted entries.
func newFromCore(core zapcore.Core) *Logger {
	return &Logger{z: zap.New(core)}
}

// Phase returns a sub-logger tagged with the given pipeline phase, e.g.
// "script", "load", "plugin:sbfl".
func (l *Logger) Phase(phase string) *Phase {
	return &Phase{z: l.z.With(zap.String("phase", phase))}
}

// Phase is a phase-scoped logger: every line it emits carries that phase's
// name, so a log of a full run reads as a sequence of labeled stages.
type Phase struct {
	z *zap.Logger
}

// With returns a copy of p with fields permanently attached, e.g. a run id
// tagging every line a Driver's phase logger emits.
func (p *Phase) With(fields ...zap.Field) *Phase {
	return &Phase{z: p.z.With(fields...)}
}

func (p *Phase) Info(msg string, fields ...zap.Field)  { p.z.Info(msg, fields...) }
func (p *Phase) Warn(msg string, fields ...zap.Field)  { p.z.Warn(msg, fields...) }
func (p *Phase) Error(msg string, fields ...zap.Field) { p.z.Error(msg, fields...) }
func (p *Phase) Debug(msg string, fields ...zap.Field) { p.z.Debug(msg, fields...) }
