package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolkov/aardwolf/internal/aardcfg"
	"github.com/kolkov/aardwolf/internal/aardlog"
	"github.com/kolkov/aardwolf/internal/orchestrator"
	"github.com/kolkov/aardwolf/internal/query"
	"github.com/kolkov/aardwolf/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	uiFormat   string
	verboseLog bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one configured analysis: execute the script, load its outputs, rank hypotheses",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "path to .aardwolf.yml (default: discovered by walking up from cwd)")
	runCmd.Flags().StringVar(&uiFormat, "ui", "cli", "output format: cli or json")
	runCmd.Flags().BoolVarP(&verboseLog, "verbose", "v", false, "enable debug-level logging")
}

func runRun(cmd *cobra.Command, args []string) error {
	renderer, err := newRenderer(cmd, uiFormat)
	if err != nil {
		return err
	}

	log, err := aardlog.New(verboseLog)
	if err != nil {
		return fmt.Errorf("aardwolf: init logger: %w", err)
	}
	defer log.Sync()

	if err := renderer.Prolog(); err != nil {
		return err
	}
	if runErr := runAnalysis(renderer, log); runErr != nil {
		if err := renderer.Error(runErr); err != nil {
			return err
		}
	}
	return renderer.Epilog()
}

func runAnalysis(renderer ui.Renderer, log *aardlog.Logger) error {
	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("aardwolf: getwd: %w", err)
		}
		path, err = aardcfg.Discover(cwd)
		if err != nil {
			return err
		}
	}

	cfg, err := aardcfg.Load(path)
	if err != nil {
		return err
	}

	workDir, _, err := aardcfg.ModuleRoot(filepath.Dir(path))
	if err != nil {
		workDir = filepath.Dir(path)
	}

	driver := orchestrator.NewDriver(cfg, log)
	env := orchestrator.NewScriptEnv(cfg.OutputDir, workDir, os.Getenv("RUNTIME_LIB"), os.Getenv("FRONTEND"), os.Getenv("TARGET_FILE"))

	if err := driver.RunScript(context.Background(), env); err != nil {
		return err
	}

	rd, err := driver.LoadOutputs(env)
	if err != nil {
		return err
	}

	store := query.NewStore(rd)
	pipeline := orchestrator.NewPipeline(store, log, driver.RunID)

	outcomes, err := pipeline.Run(cfg.Plugins)
	if err != nil {
		return err
	}

	for _, outcome := range outcomes {
		if err := renderer.Plugin(outcome.Name); err != nil {
			return err
		}
		if outcome.Err != nil {
			if err := renderer.Error(outcome.Err); err != nil {
				return err
			}
			continue
		}
		for _, item := range outcome.Results.Iter() {
			if err := renderer.Result(ui.Resolve(rd, item)); err != nil {
				return err
			}
		}
	}
	return nil
}

func newRenderer(cmd *cobra.Command, format string) (ui.Renderer, error) {
	out := cmd.OutOrStdout()
	switch format {
	case "cli":
		return ui.NewCLI(out), nil
	case "json":
		return ui.NewJSON(out, version), nil
	default:
		return nil, fmt.Errorf("aardwolf: unknown --ui format %q (want cli or json)", format)
	}
}
