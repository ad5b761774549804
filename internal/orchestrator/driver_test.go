package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kolkov/aardwolf/internal/aardcfg"
	"github.com/stretchr/testify/require"
)

func TestNewScriptEnvDerivesOutputPaths(t *testing.T) {
	env := NewScriptEnv("/out", "/work", "/lib/runtime.so", "go", "main.go")

	require.Equal(t, filepath.Join("/out", "aard.instr"), env.InstrFile)
	require.Equal(t, filepath.Join("/out", "aard.exec"), env.ExecFile)
	require.Equal(t, filepath.Join("/out", "aard.trace"), env.TraceFile)
	require.Equal(t, filepath.Join("/out", "aard.result"), env.ResultFile)
	require.Equal(t, filepath.Join("/out", "aard.target")+".aard", env.AnalysisFile)
}

func TestRunScriptExecutesStepsWithEnvContract(t *testing.T) {
	outDir := t.TempDir()
	workDir := t.TempDir()
	env := NewScriptEnv(outDir, workDir, "runtime.so", "go", "main.go")

	cfg := &aardcfg.Config{Script: []string{
		`printf '%s' "$TARGET_FILE:$RESULT_FILE" > "$OUTPUT_DIR/seen"`,
	}}
	d := NewDriver(cfg, nil)

	require.NoError(t, d.RunScript(context.Background(), env))

	got, err := os.ReadFile(filepath.Join(outDir, "seen"))
	require.NoError(t, err)
	require.Equal(t, env.TargetFile+":"+env.ResultFile, string(got))
}

func TestRunScriptStopsOnFailingStep(t *testing.T) {
	outDir := t.TempDir()
	workDir := t.TempDir()
	env := NewScriptEnv(outDir, workDir, "", "", "")

	cfg := &aardcfg.Config{Script: []string{
		"exit 1",
		`printf '%s' "should not run" > "$OUTPUT_DIR/marker"`,
	}}
	d := NewDriver(cfg, nil)

	err := d.RunScript(context.Background(), env)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "marker"))
	require.True(t, os.IsNotExist(statErr))
}

func TestLoadOutputsFailsWhenFilesMissing(t *testing.T) {
	outDir := t.TempDir()
	env := NewScriptEnv(outDir, outDir, "", "", "main.go")
	d := NewDriver(&aardcfg.Config{}, nil)

	_, err := d.LoadOutputs(env)
	require.Error(t, err)
}
