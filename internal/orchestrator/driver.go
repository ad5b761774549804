// Package orchestrator sequences one analysis run: execute the
// configured external script to produce the three raw data files, load
// them, then drive the configured plugin pipeline over the result.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kolkov/aardwolf/internal/aardcfg"
	"github.com/kolkov/aardwolf/internal/aardlog"
	"github.com/kolkov/aardwolf/internal/rawio"
	"go.uber.org/zap"
)

// Output file names the external script is expected to produce inside
// output_dir, per the env-var contract.
const (
	targetFileName   = "aard.target"
	instrFileName    = "aard.instr"
	execFileName     = "aard.exec"
	traceFileName    = "aard.trace"
	resultFileName   = "aard.result"
	analysisFileSuff = ".aard"
)

// ScriptEnv is the full set of environment variables the external script
// receives, plus the paths the orchestrator reads back afterward.
type ScriptEnv struct {
	OutputDir  string
	WorkDir    string
	RuntimeLib string
	Frontend   string
	TargetFile string

	InstrFile    string
	ExecFile     string
	AnalysisFile string
	TraceFile    string
	ResultFile   string
}

// NewScriptEnv derives the output file paths from outputDir per the fixed
// naming contract, given the ambient workDir/runtimeLib/frontend/targetFile
// inputs the caller already resolved (e.g. via aardcfg.ModuleRoot).
func NewScriptEnv(outputDir, workDir, runtimeLib, frontend, targetFile string) ScriptEnv {
	target := filepath.Join(outputDir, targetFileName)
	return ScriptEnv{
		OutputDir:    outputDir,
		WorkDir:      workDir,
		RuntimeLib:   runtimeLib,
		Frontend:     frontend,
		TargetFile:   targetFile,
		InstrFile:    filepath.Join(outputDir, instrFileName),
		ExecFile:     filepath.Join(outputDir, execFileName),
		AnalysisFile: target + analysisFileSuff,
		TraceFile:    filepath.Join(outputDir, traceFileName),
		ResultFile:   filepath.Join(outputDir, resultFileName),
	}
}

func (e ScriptEnv) environ() []string {
	return append(os.Environ(),
		"OUTPUT_DIR="+e.OutputDir,
		"WORK_DIR="+e.WorkDir,
		"RUNTIME_LIB="+e.RuntimeLib,
		"FRONTEND="+e.Frontend,
		"TARGET_FILE="+e.TargetFile,
		"INSTR_FILE="+e.InstrFile,
		"EXEC_FILE="+e.ExecFile,
		"ANALYSIS_FILE="+e.AnalysisFile,
		"TRACE_FILE="+e.TraceFile,
		"RESULT_FILE="+e.ResultFile,
	)
}

// Driver owns one config's script execution and raw-data loading.
type Driver struct {
	Config *aardcfg.Config
	Log    *aardlog.Logger

	// RunID tags every phase-scoped log line this Driver emits, so a
	// single run's output can be grepped out of a log shared across
	// concurrent or historical runs.
	RunID uuid.UUID
}

// NewDriver builds a Driver over cfg, logging phase-tagged lines to log (a
// nil log is valid), stamping a fresh run id for log correlation.
func NewDriver(cfg *aardcfg.Config, log *aardlog.Logger) *Driver {
	return &Driver{Config: cfg, Log: log, RunID: uuid.New()}
}

func (d *Driver) phase(name string) *aardlog.Phase {
	if d.Log == nil {
		return nil
	}
	return d.Log.Phase(name).With(zap.String("run_id", d.RunID.String()))
}

// RunScript runs the configured script lines in order inside a shell, each
// inheriting env plus the fixed contract variables env describes. A
// failing step aborts the remaining ones.
func (d *Driver) RunScript(ctx context.Context, env ScriptEnv) error {
	if err := os.MkdirAll(env.OutputDir, 0o755); err != nil {
		return fmt.Errorf("orchestrator: create output_dir %s: %w", env.OutputDir, err)
	}

	environ := env.environ()
	phase := d.phase("script")
	for i, line := range d.Config.Script {
		if phase != nil {
			phase.Info("running script step", zap.Int("step", i), zap.String("line", line))
		}
		cmd := exec.CommandContext(ctx, "sh", "-c", line)
		cmd.Dir = env.WorkDir
		cmd.Env = environ
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("orchestrator: script step %d (%q): %w", i, line, err)
		}
	}
	return nil
}

// LoadOutputs reads the three raw-data files env names and parses them via
// rawio.Load.
func (d *Driver) LoadOutputs(env ScriptEnv) (*rawio.RawData, error) {
	static, err := os.ReadFile(env.AnalysisFile)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read analysis file %s: %w", env.AnalysisFile, err)
	}
	trace, err := os.ReadFile(env.TraceFile)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read trace file %s: %w", env.TraceFile, err)
	}
	testSuite, err := os.ReadFile(env.ResultFile)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read result file %s: %w", env.ResultFile, err)
	}

	phase := d.phase("load")
	rd, err := rawio.Load(static, trace, testSuite)
	if err != nil {
		return nil, err
	}
	if phase != nil {
		phase.Info("loaded raw data",
			zap.Int("statements", len(rd.StmtIndex)),
			zap.Int("trace_items", len(rd.Trace)),
			zap.Int("tests", len(rd.TestSuite)))
	}
	return rd, nil
}
